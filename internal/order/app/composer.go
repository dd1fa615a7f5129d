package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	cart "github.com/dwikikusuma/buensabor-storefront/internal/cart/domain"
	"github.com/dwikikusuma/buensabor-storefront/internal/order/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Precondition failures. Each aborts composition without a submission.
var (
	ErrNotAuthenticated  = errors.New("you must log in to place an order")
	ErrEmptyCart         = errors.New("the cart is empty")
	ErrNoBranch          = errors.New("select a branch before ordering")
	ErrNoAddress         = errors.New("add a delivery address to your profile")
	ErrIncompleteAddress = errors.New("the delivery address is incomplete")
	ErrInvalidInput      = errors.New("invalid input")
)

// IsPrecondition reports whether err is one of the composition preconditions.
func IsPrecondition(err error) bool {
	for _, p := range []error{ErrNotAuthenticated, ErrEmptyCart, ErrNoBranch, ErrNoAddress, ErrIncompleteAddress} {
		if errors.Is(err, p) {
			return true
		}
	}
	return false
}

type ComposeRequest struct {
	State       cart.State
	Fulfillment domain.FulfillmentType
	Payment     domain.PaymentMethod
}

type Composer struct {
	profiles ProfileReader
	pricing  cart.Pricing
	now      func() time.Time
	newKey   func() string
}

func NewComposer(profiles ProfileReader, pricing cart.Pricing) *Composer {
	return &Composer{
		profiles: profiles,
		pricing:  pricing,
		now:      time.Now,
		newKey:   uuid.NewString,
	}
}

// Compose builds the submission for the cart in req. Preconditions are checked in
// order: authenticated, non-empty cart, branch selected, then for delivery a
// complete saved address.
func (c *Composer) Compose(ctx context.Context, req ComposeRequest) (domain.Submission, error) {
	if !req.Fulfillment.Valid() || !req.Payment.Valid() {
		return domain.Submission{}, ErrInvalidInput
	}

	st := req.State
	switch {
	case st.User == nil:
		return domain.Submission{}, ErrNotAuthenticated
	case st.Empty():
		return domain.Submission{}, ErrEmptyCart
	case st.Branch == nil:
		return domain.Submission{}, ErrNoBranch
	}

	address := st.Branch.Address
	delivery := req.Fulfillment == domain.Delivery
	if delivery {
		addr, ok, err := c.profiles.DeliveryAddress(ctx, st.User.ID)
		if err != nil {
			return domain.Submission{}, fmt.Errorf("read profile of client %d: %w", st.User.ID, err)
		}
		if !ok {
			return domain.Submission{}, ErrNoAddress
		}
		if err := addr.Validate(); err != nil {
			return domain.Submission{}, fmt.Errorf("%w: %w", ErrIncompleteAddress, err)
		}
		address = addr
	}

	cartTotal := st.Total()
	surcharge := c.pricing.Surcharge(cartTotal, delivery)

	return domain.Submission{
		IdempotencyKey: c.newKey(),
		ClientID:       st.User.ID,
		BranchID:       st.Branch.ID,
		Fulfillment:    req.Fulfillment,
		Payment:        req.Payment,
		Status:         domain.StatusPreparing,
		Total:          cartTotal.Add(surcharge),
		Surcharge:      surcharge,
		Address:        address,
		Details:        Details(st.Lines),
		CreatedAt:      c.now(),
	}, nil
}

// Details turns cart lines into order details. A bundle line expands into one
// detail per component with quantity component×line and a zero subtotal.
func Details(lines []cart.Line) []domain.Detail {
	out := make([]domain.Detail, 0, len(lines))
	for _, l := range lines {
		if !l.Item.IsBundle() {
			out = append(out, domain.Detail{
				ArticleID: l.Item.SourceID,
				Name:      l.Item.Name,
				Quantity:  l.Quantity,
				Subtotal:  cart.LineTotal(l),
			})
			continue
		}
		for _, comp := range l.Item.Components {
			out = append(out, domain.Detail{
				ArticleID: comp.ArticleID,
				Name:      comp.Name,
				Quantity:  comp.Quantity * l.Quantity,
				Subtotal:  decimal.Zero,
				BundleID:  l.Item.ID,
			})
		}
	}
	return out
}
