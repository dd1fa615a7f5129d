package rest

import (
	"context"
	"fmt"

	"github.com/dwikikusuma/buensabor-storefront/internal/catalog/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
	"github.com/dwikikusuma/buensabor-storefront/pkg/restclient"
	"github.com/dwikikusuma/buensabor-storefront/pkg/restclient/wire"
	"github.com/shopspring/decimal"
)

type CatalogClient struct {
	c *restclient.Client
}

func NewCatalogClient(c *restclient.Client) *CatalogClient {
	return &CatalogClient{c: c}
}

var _ app.Backend = (*CatalogClient)(nil)

type imagen struct {
	URL string `json:"url"`
}

type articulo struct {
	ID                int64    `json:"id"`
	Denominacion      string   `json:"denominacion"`
	PrecioVenta       float64  `json:"precioVenta"`
	PrecioPromocional *float64 `json:"precioPromocional"`
	Eliminado         bool     `json:"eliminado"`
	Imagenes          []imagen `json:"imagenes"`
}

type categoria struct {
	ID            int64       `json:"id"`
	Denominacion  string      `json:"denominacion"`
	PadreID       *int64      `json:"padreId"`
	Eliminado     bool        `json:"eliminado"`
	SubCategorias []categoria `json:"subCategorias"`
	Articulos     []articulo  `json:"articulos"`
}

type promocionDetalle struct {
	Cantidad int      `json:"cantidad"`
	Articulo articulo `json:"articulo"`
}

type promocion struct {
	ID                int64              `json:"id"`
	Denominacion      string             `json:"denominacion"`
	PrecioPromocional float64            `json:"precioPromocional"`
	Eliminado         bool               `json:"eliminado"`
	Imagenes          []imagen           `json:"imagenes"`
	PromocionDetalles []promocionDetalle `json:"promocionDetalles"`
}

type sucursal struct {
	ID        int64          `json:"id"`
	Nombre    string         `json:"nombre"`
	Eliminado bool           `json:"eliminado"`
	Domicilio wire.Domicilio `json:"domicilio"`
}

func (r *CatalogClient) ListBranches(ctx context.Context, organizationID int64) ([]domain.Branch, error) {
	var rows []sucursal
	if err := r.c.GetJSON(ctx, fmt.Sprintf("/sucursal/listByEmpresa/%d", organizationID), &rows); err != nil {
		return nil, err
	}

	out := make([]domain.Branch, 0, len(rows))
	for _, s := range rows {
		if s.Eliminado {
			continue
		}
		out = append(out, domain.Branch{ID: s.ID, Name: s.Nombre, Address: s.Domicilio.ToDomain()})
	}
	return out, nil
}

func (r *CatalogClient) ListCategories(ctx context.Context, branchID int64) ([]domain.Category, error) {
	var rows []categoria
	if err := r.c.GetJSON(ctx, fmt.Sprintf("/categoria/listBySucursal/%d", branchID), &rows); err != nil {
		return nil, err
	}
	return toCategories(rows), nil
}

func (r *CatalogClient) ListPromotions(ctx context.Context, branchID int64) ([]domain.Promotion, error) {
	var rows []promocion
	if err := r.c.GetJSON(ctx, fmt.Sprintf("/promocion/listBySucursal/%d", branchID), &rows); err != nil {
		return nil, err
	}

	out := make([]domain.Promotion, 0, len(rows))
	for _, p := range rows {
		promo := domain.Promotion{
			ID:         p.ID,
			Name:       p.Denominacion,
			PromoPrice: decimal.NewFromFloat(p.PrecioPromocional),
			Deleted:    p.Eliminado,
			Images:     toImages(p.Imagenes),
		}
		for _, d := range p.PromocionDetalles {
			promo.Details = append(promo.Details, domain.PromotionDetail{
				Quantity: d.Cantidad,
				Article:  toArticle(d.Articulo, ""),
			})
		}
		out = append(out, promo)
	}
	return out, nil
}

func toCategories(rows []categoria) []domain.Category {
	var out []domain.Category
	for _, c := range rows {
		if c.Eliminado {
			continue
		}
		cat := domain.Category{
			ID:            c.ID,
			Name:          c.Denominacion,
			ParentID:      c.PadreID,
			Subcategories: toCategories(c.SubCategorias),
		}
		for _, a := range c.Articulos {
			cat.Articles = append(cat.Articles, toArticle(a, c.Denominacion))
		}
		out = append(out, cat)
	}
	return out
}

func toArticle(a articulo, category string) domain.Article {
	art := domain.Article{
		ID:           a.ID,
		Name:         a.Denominacion,
		SalePrice:    decimal.NewFromFloat(a.PrecioVenta),
		Deleted:      a.Eliminado,
		Images:       toImages(a.Imagenes),
		CategoryName: category,
	}
	if a.PrecioPromocional != nil {
		art.PromoPrice = decimal.NewFromFloat(*a.PrecioPromocional)
	}
	return art
}

func toImages(in []imagen) []domain.Image {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Image, 0, len(in))
	for _, i := range in {
		out = append(out, domain.Image{URL: i.URL})
	}
	return out
}
