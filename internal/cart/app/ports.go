package app

import (
	"context"

	"github.com/dwikikusuma/buensabor-storefront/internal/cart/domain"
)

// StateRepo stores one cart State per session. Load returns ErrNotFound for an
// unknown session.
type StateRepo interface {
	Load(ctx context.Context, sessionID string) (domain.State, error)
	Save(ctx context.Context, sessionID string, s domain.State) error
	Delete(ctx context.Context, sessionID string) error
}
