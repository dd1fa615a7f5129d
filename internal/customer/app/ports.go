package app

import (
	"context"

	"github.com/dwikikusuma/buensabor-storefront/internal/customer/domain"
)

// Backend is the remote client registry. Login and Register return the client ID.
type Backend interface {
	Login(ctx context.Context, email, password string) (int64, error)
	Register(ctx context.Context, r domain.Registration) (int64, error)
	Client(ctx context.Context, id int64) (domain.Client, error)
}
