package adapter

import (
	"context"

	catalogapp "github.com/dwikikusuma/buensabor-storefront/internal/catalog/app"
	catalog "github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
	checkoutapp "github.com/dwikikusuma/buensabor-storefront/internal/checkout/app"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

var _ checkoutapp.CatalogReader = (*CatalogServiceReader)(nil)

func (r *CatalogServiceReader) Item(ctx context.Context, branchID int64, itemID string) (catalog.Item, error) {
	return r.svc.Item(ctx, branchID, itemID)
}
