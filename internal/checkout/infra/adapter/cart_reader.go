package adapter

import (
	"context"
	"errors"

	cartapp "github.com/dwikikusuma/buensabor-storefront/internal/cart/app"
	cart "github.com/dwikikusuma/buensabor-storefront/internal/cart/domain"
	checkoutapp "github.com/dwikikusuma/buensabor-storefront/internal/checkout/app"
)

type CartServiceStore struct {
	svc *cartapp.Service
}

func NewCartServiceStore(svc *cartapp.Service) *CartServiceStore {
	return &CartServiceStore{svc: svc}
}

var _ checkoutapp.CartStore = (*CartServiceStore)(nil)

func (r *CartServiceStore) Get(ctx context.Context, sessionID string) (cart.State, error) {
	return r.svc.Get(ctx, sessionID)
}

func (r *CartServiceStore) RemoveOrdered(ctx context.Context, sessionID string, ordered cart.State) (cart.State, error) {
	action := cart.RemoveOrdered{Lines: ordered.Lines}
	if ordered.Branch != nil {
		action.BranchID = ordered.Branch.ID
	}
	st, err := r.svc.Dispatch(ctx, sessionID, action)
	if errors.Is(err, cart.ErrBranchChanged) {
		// the cart was reset for another branch; nothing ordered is left in it
		return st, nil
	}
	return st, err
}
