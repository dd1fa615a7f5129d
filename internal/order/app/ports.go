package app

import (
	"context"

	"github.com/dwikikusuma/buensabor-storefront/internal/geo"
	"github.com/dwikikusuma/buensabor-storefront/internal/order/domain"
)

// ProfileReader resolves where a client's delivery orders go. ok is false
// when the client has no address saved.
type ProfileReader interface {
	DeliveryAddress(ctx context.Context, clientID int64) (addr geo.Address, ok bool, err error)
}

// OrderGateway is the remote order endpoint.
type OrderGateway interface {
	Submit(ctx context.Context, s domain.Submission) (domain.Result, error)
	ListByClient(ctx context.Context, clientID int64) ([]domain.Order, error)
}
