package domain

import (
	"errors"

	catalog "github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
)

// ErrBranchChanged is reported for an action pinned to a branch the cart is no
// longer bound to.
var ErrBranchChanged = errors.New("the cart moved to another branch")

// Action is one cart mutation. The set is closed: SetBranch, AddItem, RemoveItem,
// SetQuantity, RemoveOrdered, Clear and SetUser.
type Action interface {
	apply(State) State
}

type guarded interface {
	check(State) error
}

// Check reports whether a would take effect on s. Only branch-pinned actions can
// fail it; Apply turns a failing action into a no-op.
func (s State) Check(a Action) error {
	if g, ok := a.(guarded); ok {
		return g.check(s)
	}
	return nil
}

func pinned(s State, branchID int64) error {
	if branchID == 0 {
		return nil
	}
	if s.Branch == nil || s.Branch.ID != branchID {
		return ErrBranchChanged
	}
	return nil
}

// SetBranch binds the cart to a branch and drops every line, even when the branch
// is unchanged.
type SetBranch struct {
	Branch BranchRef
}

func (a SetBranch) apply(s State) State {
	b := a.Branch
	s.Branch = &b
	s.Lines = nil
	return s
}

// AddItem adds one unit of Item. A non-zero BranchID pins the action to the branch
// the item was resolved against.
type AddItem struct {
	Item     catalog.Item
	BranchID int64
}

func (a AddItem) check(s State) error { return pinned(s, a.BranchID) }

func (a AddItem) apply(s State) State {
	if a.check(s) != nil {
		return s
	}
	if i := s.index(a.Item.ID); i >= 0 {
		s.Lines[i].Quantity++
		return s
	}
	s.Lines = append(s.Lines, Line{Item: a.Item, Quantity: 1})
	return s
}

type RemoveItem struct {
	ItemID string
}

func (a RemoveItem) apply(s State) State {
	i := s.index(a.ItemID)
	if i < 0 {
		return s
	}
	s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
	return s
}

// SetQuantity sets a line's quantity. Anything below 1 removes the line.
type SetQuantity struct {
	ItemID   string
	Quantity int
}

func (a SetQuantity) apply(s State) State {
	i := s.index(a.ItemID)
	if i < 0 {
		return s
	}
	if a.Quantity < 1 {
		return RemoveItem{ItemID: a.ItemID}.apply(s)
	}
	s.Lines[i].Quantity = a.Quantity
	return s
}

// RemoveOrdered takes the quantities of Lines off the cart once they were ordered.
// Lines added or raised after the order was composed keep the difference.
type RemoveOrdered struct {
	BranchID int64
	Lines    []Line
}

func (a RemoveOrdered) check(s State) error { return pinned(s, a.BranchID) }

func (a RemoveOrdered) apply(s State) State {
	if a.check(s) != nil {
		return s
	}
	for _, ordered := range a.Lines {
		i := s.index(ordered.Item.ID)
		if i < 0 {
			continue
		}
		s = SetQuantity{ItemID: ordered.Item.ID, Quantity: s.Lines[i].Quantity - ordered.Quantity}.apply(s)
	}
	return s
}

// Clear empties the lines. Branch and user stay.
type Clear struct{}

func (Clear) apply(s State) State {
	s.Lines = nil
	return s
}

// SetUser records login, or logout when User is nil.
type SetUser struct {
	User *User
}

func (a SetUser) apply(s State) State {
	if a.User == nil {
		s.User = nil
		return s
	}
	u := *a.User
	s.User = &u
	return s
}
