package app

import (
	"testing"

	"github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(v int64) *int64 { return &v }

func art(id int64, name, p string) domain.Article {
	return domain.Article{ID: id, Name: name, SalePrice: price(p)}
}

// Comidas(1) -> Hamburguesas(2) -> Dobles(3); Bebidas(4) only has deleted/free articles.
func sampleForest() []domain.Category {
	dobles := domain.Category{ID: 3, Name: "Dobles", ParentID: ptr(2), Articles: []domain.Article{art(30, "Doble cheddar", "12.50")}}
	hamburguesas := domain.Category{ID: 2, Name: "Hamburguesas", ParentID: ptr(1),
		Articles:      []domain.Article{art(20, "Burger", "9.99")},
		Subcategories: []domain.Category{dobles},
	}
	comidas := domain.Category{ID: 1, Name: "Comidas",
		Articles:      []domain.Article{art(10, "Papas", "3.00")},
		Subcategories: []domain.Category{hamburguesas},
	}
	gratis := art(40, "Agua", "0")
	borrada := art(41, "Soda", "2.00")
	borrada.Deleted = true
	bebidas := domain.Category{ID: 4, Name: "Bebidas", Articles: []domain.Article{gratis, borrada}}

	return []domain.Category{comidas, bebidas}
}

func names(items []domain.Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestItemsAll(t *testing.T) {
	items := Items(sampleForest(), nil, AllCategories())

	require.Equal(t, []string{"Papas", "Burger", "Doble cheddar"}, names(items))
	require.Equal(t, "Hamburguesas", items[1].CategoryName)
	require.Equal(t, "art-20", items[1].ID)
	require.Equal(t, domain.KindArticle, items[1].Kind)
}

func TestItemsCategoryClosureIsTransitive(t *testing.T) {
	items := Items(sampleForest(), nil, InCategory(1))
	require.Equal(t, []string{"Papas", "Burger", "Doble cheddar"}, names(items))

	items = Items(sampleForest(), nil, InCategory(2))
	require.Equal(t, []string{"Burger", "Doble cheddar"}, names(items))

	items = Items(sampleForest(), nil, InCategory(3))
	require.Equal(t, []string{"Doble cheddar"}, names(items))
}

func TestItemsFlatListWithParentIDs(t *testing.T) {
	// the backend may also list subcategories at the root with only padreId set
	forest := []domain.Category{
		{ID: 1, Name: "Comidas", Articles: []domain.Article{art(10, "Papas", "3")}},
		{ID: 2, Name: "Hamburguesas", ParentID: ptr(1), Articles: []domain.Article{art(20, "Burger", "9.99")}},
		{ID: 3, Name: "Dobles", ParentID: ptr(2), Articles: []domain.Article{art(30, "Doble", "12")}},
		{ID: 5, Name: "Postres", Articles: []domain.Article{art(50, "Flan", "4")}},
	}

	items := Items(forest, nil, InCategory(1))
	require.Equal(t, []string{"Papas", "Burger", "Doble"}, names(items))
}

func TestItemsDuplicateCategoryListedOnce(t *testing.T) {
	forest := sampleForest()
	// Hamburguesas also appears at the root, as the backend sometimes sends it
	forest = append(forest, forest[0].Subcategories[0])

	items := Items(forest, nil, AllCategories())
	require.Equal(t, []string{"Papas", "Burger", "Doble cheddar"}, names(items))
}

func TestItemsSharedArticleAppearsPerCategory(t *testing.T) {
	shared := art(99, "Combo", "5")
	forest := []domain.Category{
		{ID: 1, Name: "A", Articles: []domain.Article{shared}},
		{ID: 2, Name: "B", Articles: []domain.Article{shared}},
	}
	items := Items(forest, nil, AllCategories())
	require.Len(t, items, 2)
	require.Equal(t, "A", items[0].CategoryName)
	require.Equal(t, "B", items[1].CategoryName)
}

func TestItemsPromotionsBypassCategories(t *testing.T) {
	promos := []domain.Promotion{
		{ID: 7, Name: "Combo familiar", PromoPrice: price("25"), Details: []domain.PromotionDetail{
			{Quantity: 2, Article: art(10, "Papas", "3")},
			{Quantity: 1, Article: art(60, "Gaseosa", "2")},
		}},
		{ID: 8, Name: "Vencida", PromoPrice: price("10"), Deleted: true},
		{ID: 9, Name: "Gratis", PromoPrice: decimal.Zero},
	}

	items := Items(sampleForest(), promos, OnlyPromotions())
	require.Len(t, items, 1)

	combo := items[0]
	require.Equal(t, "promo-7", combo.ID)
	require.Equal(t, domain.KindPromotion, combo.Kind)
	require.Equal(t, PromotionsCategory, combo.CategoryName)
	require.True(t, combo.IsBundle())
	require.Equal(t, []domain.Component{
		{Quantity: 2, ArticleID: 10, Name: "Papas"},
		{Quantity: 1, ArticleID: 60, Name: "Gaseosa"},
	}, combo.Components)
	require.True(t, combo.EffectiveUnitPrice().Equal(price("25")))
}

func TestEligibleCategoriesPrunesBottomUp(t *testing.T) {
	forest := []domain.Category{
		{ID: 1, Name: "Vacía", Subcategories: []domain.Category{
			{ID: 2, Name: "También vacía", ParentID: ptr(1), Subcategories: []domain.Category{
				{ID: 3, Name: "Hoja vacía", ParentID: ptr(2)},
			}},
		}},
		{ID: 4, Name: "Con hoja", Subcategories: []domain.Category{
			{ID: 5, Name: "Vacía", ParentID: ptr(4)},
			{ID: 6, Name: "Llena", ParentID: ptr(4), Articles: []domain.Article{art(1, "X", "1")}},
		}},
	}

	got := EligibleCategories(forest)
	require.Len(t, got, 1)
	require.Equal(t, int64(4), got[0].ID)
	require.Len(t, got[0].Subcategories, 1)
	require.Equal(t, int64(6), got[0].Subcategories[0].ID)
}

func TestNavigation(t *testing.T) {
	forest := sampleForest()
	forest = append(forest, forest[0].Subcategories[0]) // non-root duplicate is skipped

	nav := Navigation(forest)
	require.Equal(t, []NavNode{
		{ID: 1, Name: "Comidas", Children: []NavNode{
			{ID: 2, Name: "Hamburguesas", Children: []NavNode{{ID: 3, Name: "Dobles"}}},
		}},
	}, nav)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	require.Equal(t, AllCategories(), f)

	f, err = ParseFilter("Promotions")
	require.NoError(t, err)
	require.True(t, f.Promotions)

	f, err = ParseFilter("12")
	require.NoError(t, err)
	require.Equal(t, int64(12), *f.CategoryID)

	_, err = ParseFilter("-3")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseFilter("burgers")
	require.ErrorIs(t, err, ErrInvalidInput)
}
