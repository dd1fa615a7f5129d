package app

import (
	"context"

	"github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
)

// Backend is the remote catalog. Implementations: infra/rest, and infra/redis as a
// caching decorator over it.
type Backend interface {
	ListBranches(ctx context.Context, organizationID int64) ([]domain.Branch, error)
	ListCategories(ctx context.Context, branchID int64) ([]domain.Category, error)
	ListPromotions(ctx context.Context, branchID int64) ([]domain.Promotion, error)
}
