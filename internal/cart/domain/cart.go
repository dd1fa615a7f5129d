package domain

import (
	catalog "github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
	"github.com/dwikikusuma/buensabor-storefront/internal/geo"
	"github.com/shopspring/decimal"
)

type Line struct {
	Item     catalog.Item
	Quantity int
}

// BranchRef is the branch the cart is bound to.
type BranchRef struct {
	ID      int64
	Name    string
	Address geo.Address
}

// User marks the session as authenticated.
type User struct {
	ID       int64
	Username string
	Role     string
}

// State is the whole cart of one session. Lines keep insertion order and hold at
// most one line per item ID.
type State struct {
	Lines  []Line
	Branch *BranchRef
	User   *User
}

func (s State) Empty() bool { return len(s.Lines) == 0 }

func (s State) Line(itemID string) (Line, bool) {
	if i := s.index(itemID); i >= 0 {
		return s.Lines[i], true
	}
	return Line{}, false
}

// Apply returns the state after a. The receiver is never modified.
func (s State) Apply(a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s.clone())
}

func LineTotal(l Line) decimal.Decimal {
	return l.Item.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (s State) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(LineTotal(l))
	}
	return total
}

// ItemCount is the number of distinct lines, not the sum of quantities.
func (s State) ItemCount() int { return len(s.Lines) }

func (s State) index(itemID string) int {
	for i, l := range s.Lines {
		if l.Item.ID == itemID {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	out := s
	if s.Lines != nil {
		out.Lines = make([]Line, len(s.Lines))
		copy(out.Lines, s.Lines)
	}
	return out
}
