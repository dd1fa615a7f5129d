package app

import (
	"context"

	cart "github.com/dwikikusuma/buensabor-storefront/internal/cart/domain"
	catalog "github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
	"github.com/dwikikusuma/buensabor-storefront/internal/checkout/domain"
	orderapp "github.com/dwikikusuma/buensabor-storefront/internal/order/app"
	order "github.com/dwikikusuma/buensabor-storefront/internal/order/domain"
)

type CartStore interface {
	Get(ctx context.Context, sessionID string) (cart.State, error)
	// RemoveOrdered takes the lines of ordered off the session's cart and returns
	// what is left.
	RemoveOrdered(ctx context.Context, sessionID string, ordered cart.State) (cart.State, error)
}

type CatalogReader interface {
	Item(ctx context.Context, branchID int64, itemID string) (catalog.Item, error)
}

type Composer interface {
	Compose(ctx context.Context, req orderapp.ComposeRequest) (order.Submission, error)
}

type OrderSubmitter interface {
	Submit(ctx context.Context, s order.Submission) (order.Result, error)
}

type PaymentGateway interface {
	CreatePreference(ctx context.Context, items []domain.PaymentItem) (domain.Preference, error)
}

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

type Ledger interface {
	Record(ctx context.Context, a domain.Attempt) error
}

type Publisher interface {
	Publish(ctx context.Context, e domain.Event) error
}
