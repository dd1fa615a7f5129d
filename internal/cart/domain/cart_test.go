package domain

import (
	"math/rand"
	"testing"

	catalog "github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id int64, name, price string) catalog.Item {
	return catalog.Item{
		ID:        catalog.ItemID(catalog.KindArticle, id),
		SourceID:  id,
		Kind:      catalog.KindArticle,
		Name:      name,
		BasePrice: decimal.RequireFromString(price),
	}
}

var (
	burger = item(1, "Burger", "9.99")
	fries  = item(2, "Fries", "3.50")
)

func TestAddItem(t *testing.T) {
	t.Run("appends with quantity one", func(t *testing.T) {
		s := State{}.Apply(AddItem{Item: burger})
		require.Len(t, s.Lines, 1)
		assert.Equal(t, 1, s.Lines[0].Quantity)
	})

	t.Run("increments existing line", func(t *testing.T) {
		s := State{}.Apply(AddItem{Item: burger}).Apply(AddItem{Item: burger})
		require.Len(t, s.Lines, 1)
		assert.Equal(t, 2, s.Lines[0].Quantity)
		assert.Equal(t, "19.98", s.Total().StringFixed(2))
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		s := State{}.Apply(AddItem{Item: fries}).Apply(AddItem{Item: burger}).Apply(AddItem{Item: fries})
		require.Len(t, s.Lines, 2)
		assert.Equal(t, fries.ID, s.Lines[0].Item.ID)
		assert.Equal(t, burger.ID, s.Lines[1].Item.ID)
	})
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	s := State{}.Apply(AddItem{Item: burger}).Apply(AddItem{Item: fries})

	once := s.Apply(RemoveItem{ItemID: burger.ID})
	twice := once.Apply(RemoveItem{ItemID: burger.ID})

	assert.Equal(t, once, twice)
	require.Len(t, twice.Lines, 1)
	assert.Equal(t, fries.ID, twice.Lines[0].Item.ID)
}

func TestSetQuantity(t *testing.T) {
	base := State{}.Apply(AddItem{Item: burger})

	t.Run("sets directly", func(t *testing.T) {
		s := base.Apply(SetQuantity{ItemID: burger.ID, Quantity: 5})
		assert.Equal(t, 5, s.Lines[0].Quantity)
	})

	t.Run("below one removes the line", func(t *testing.T) {
		for _, q := range []int{0, -3} {
			s := base.Apply(SetQuantity{ItemID: burger.ID, Quantity: q})
			assert.True(t, s.Empty())
		}
	})

	t.Run("unknown item is a no-op", func(t *testing.T) {
		s := base.Apply(SetQuantity{ItemID: "art-999", Quantity: 4})
		assert.Equal(t, base, s)
	})
}

func TestSetBranchClearsLines(t *testing.T) {
	centro := BranchRef{ID: 1, Name: "Centro"}
	s := State{}.Apply(SetBranch{Branch: centro}).Apply(AddItem{Item: burger})

	again := s.Apply(SetBranch{Branch: centro})
	assert.True(t, again.Empty())
	require.NotNil(t, again.Branch)
	assert.Equal(t, int64(1), again.Branch.ID)
}

func TestAddItemPinnedToBranch(t *testing.T) {
	centro := State{}.Apply(SetBranch{Branch: BranchRef{ID: 1}})

	t.Run("same branch", func(t *testing.T) {
		add := AddItem{Item: burger, BranchID: 1}
		require.NoError(t, centro.Check(add))
		assert.Len(t, centro.Apply(add).Lines, 1)
	})

	t.Run("branch changed", func(t *testing.T) {
		moved := centro.Apply(SetBranch{Branch: BranchRef{ID: 2}})
		add := AddItem{Item: burger, BranchID: 1}
		require.ErrorIs(t, moved.Check(add), ErrBranchChanged)
		assert.True(t, moved.Apply(add).Empty())
	})

	t.Run("no branch", func(t *testing.T) {
		add := AddItem{Item: burger, BranchID: 1}
		require.ErrorIs(t, State{}.Check(add), ErrBranchChanged)
		assert.True(t, State{}.Apply(add).Empty())
	})
}

func TestRemoveOrdered(t *testing.T) {
	ordered := State{}.
		Apply(SetBranch{Branch: BranchRef{ID: 1}}).
		Apply(AddItem{Item: burger}).
		Apply(AddItem{Item: burger}).
		Apply(AddItem{Item: fries})

	t.Run("only what was ordered", func(t *testing.T) {
		now := ordered.Apply(AddItem{Item: burger}).Apply(AddItem{Item: item(3, "Soda", "2.00")})
		left := now.Apply(RemoveOrdered{BranchID: 1, Lines: ordered.Lines})

		require.Len(t, left.Lines, 2)
		assert.Equal(t, burger.ID, left.Lines[0].Item.ID)
		assert.Equal(t, 1, left.Lines[0].Quantity)
		assert.Equal(t, "art-3", left.Lines[1].Item.ID)
	})

	t.Run("unchanged cart empties", func(t *testing.T) {
		left := ordered.Apply(RemoveOrdered{BranchID: 1, Lines: ordered.Lines})
		assert.True(t, left.Empty())
		assert.NotNil(t, left.Branch)
	})

	t.Run("branch changed meanwhile", func(t *testing.T) {
		moved := ordered.Apply(SetBranch{Branch: BranchRef{ID: 2}}).Apply(AddItem{Item: burger})
		left := moved.Apply(RemoveOrdered{BranchID: 1, Lines: ordered.Lines})
		assert.Len(t, left.Lines, 1)
	})
}

func TestClearKeepsBranchAndUser(t *testing.T) {
	s := State{}.
		Apply(SetBranch{Branch: BranchRef{ID: 1}}).
		Apply(SetUser{User: &User{ID: 7, Username: "ana"}}).
		Apply(AddItem{Item: burger}).
		Apply(Clear{})

	assert.True(t, s.Empty())
	assert.NotNil(t, s.Branch)
	assert.NotNil(t, s.User)
	assert.True(t, s.Total().IsZero())
}

func TestSetUserLogout(t *testing.T) {
	s := State{}.Apply(SetUser{User: &User{ID: 7}}).Apply(SetUser{})
	assert.Nil(t, s.User)
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	s := State{}.Apply(AddItem{Item: burger}).Apply(AddItem{Item: fries})
	_ = s.Apply(AddItem{Item: burger})
	_ = s.Apply(RemoveItem{ItemID: burger.ID})

	require.Len(t, s.Lines, 2)
	assert.Equal(t, 1, s.Lines[0].Quantity)
	assert.Equal(t, burger.ID, s.Lines[0].Item.ID)
}

func TestPromoPriceWins(t *testing.T) {
	promo := burger
	promo.PromoPrice = decimal.RequireFromString("8.00")
	s := State{}.Apply(AddItem{Item: promo}).Apply(SetQuantity{ItemID: promo.ID, Quantity: 3})
	assert.Equal(t, "24.00", s.Total().StringFixed(2))
}

func TestRandomActionsKeepInvariants(t *testing.T) {
	items := []catalog.Item{burger, fries, item(3, "Soda", "2.00"), item(4, "Salad", "6.25")}
	r := rand.New(rand.NewSource(42))

	s := State{}
	for step := 0; step < 2000; step++ {
		it := items[r.Intn(len(items))]
		switch r.Intn(5) {
		case 0, 1:
			s = s.Apply(AddItem{Item: it})
		case 2:
			s = s.Apply(RemoveItem{ItemID: it.ID})
		case 3:
			s = s.Apply(SetQuantity{ItemID: it.ID, Quantity: r.Intn(6) - 1})
		case 4:
			if r.Intn(20) == 0 {
				s = s.Apply(Clear{})
			}
		}

		seen := map[string]bool{}
		sum := decimal.Zero
		for _, l := range s.Lines {
			require.False(t, seen[l.Item.ID], "duplicate line %s", l.Item.ID)
			seen[l.Item.ID] = true
			require.GreaterOrEqual(t, l.Quantity, 1)
			sum = sum.Add(l.Item.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		require.True(t, sum.Equal(s.Total()))
		require.Equal(t, len(s.Lines), s.ItemCount())
	}
}

func TestSurcharge(t *testing.T) {
	total := decimal.RequireFromString("100")

	assert.True(t, Pricing{}.Surcharge(total, true).IsZero())
	assert.True(t, Pricing{SurchargePercent: 5}.Surcharge(total, false).IsZero())
	assert.Equal(t, "5.00", Pricing{SurchargePercent: 5}.Surcharge(total, true).StringFixed(2))
	assert.Equal(t, "1.00", Pricing{SurchargePercent: 5}.Surcharge(decimal.RequireFromString("19.98"), true).StringFixed(2))
}
