package rest

import (
	"context"
	"fmt"
	"time"

	catalog "github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
	"github.com/dwikikusuma/buensabor-storefront/internal/order/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/order/domain"
	"github.com/dwikikusuma/buensabor-storefront/pkg/restclient"
	"github.com/dwikikusuma/buensabor-storefront/pkg/restclient/wire"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// OrderGateway talks to the backend /pedido resource.
type OrderGateway struct {
	c *restclient.Client
}

func NewOrderGateway(c *restclient.Client) *OrderGateway {
	return &OrderGateway{c: c}
}

var _ app.OrderGateway = (*OrderGateway)(nil)

type ref struct {
	ID           int64  `json:"id"`
	Denominacion string `json:"denominacion,omitempty"`
	Nombre       string `json:"nombre,omitempty"`
}

// detallePedido lines of a promotion carry subTotal 0 and point at the promotion
// whose price the order total already includes.
type detallePedido struct {
	ID        int64   `json:"id,omitempty"`
	Cantidad  int     `json:"cantidad"`
	SubTotal  float64 `json:"subTotal"`
	Articulo  ref     `json:"articulo"`
	Promocion *ref    `json:"promocion,omitempty"`
}

type pedido struct {
	ID             int64           `json:"id,omitempty"`
	Total          float64         `json:"total"`
	Estado         string          `json:"estado"`
	TipoEnvio      string          `json:"tipoEnvio"`
	FormaPago      string          `json:"formaPago"`
	FechaPedido    string          `json:"fechaPedido"`
	Domicilio      *wire.Domicilio `json:"domicilio,omitempty"`
	Sucursal       ref             `json:"sucursal"`
	Cliente        ref             `json:"cliente"`
	DetallePedidos []detallePedido `json:"detallePedidos"`
}

type pedidoCreado struct {
	ID     int64  `json:"id"`
	Estado string `json:"estado"`
}

// Submit posts the order. The idempotency key travels as the request ID.
func (g *OrderGateway) Submit(ctx context.Context, s domain.Submission) (domain.Result, error) {
	addr := wire.FromAddress(s.Address)
	body := pedido{
		Total:       s.Total.InexactFloat64(),
		Estado:      string(s.Status),
		TipoEnvio:   string(s.Fulfillment),
		FormaPago:   string(s.Payment),
		FechaPedido: s.CreatedAt.Format(dateLayout),
		Domicilio:   &addr,
		Sucursal:    ref{ID: s.BranchID},
		Cliente:     ref{ID: s.ClientID},
	}
	for _, d := range s.Details {
		det := detallePedido{
			Cantidad: d.Quantity,
			SubTotal: d.Subtotal.InexactFloat64(),
			Articulo: ref{ID: d.ArticleID, Denominacion: d.Name},
		}
		if d.BundleID != "" {
			kind, promoID, err := catalog.ParseItemID(d.BundleID)
			if err != nil || kind != catalog.KindPromotion {
				return domain.Result{}, fmt.Errorf("submit order: detail of bundle %q: %w", d.BundleID, catalog.ErrBadItemID)
			}
			det.Promocion = &ref{ID: promoID}
		}
		body.DetallePedidos = append(body.DetallePedidos, det)
	}

	if s.IdempotencyKey != "" {
		ctx = restclient.WithRequestID(ctx, s.IdempotencyKey)
	}

	var out pedidoCreado
	if err := g.c.PostJSON(ctx, "/pedido", body, &out); err != nil {
		return domain.Result{}, fmt.Errorf("submit order: %w", err)
	}
	return domain.Result{OrderID: out.ID, Status: domain.Status(out.Estado)}, nil
}

func (g *OrderGateway) ListByClient(ctx context.Context, clientID int64) ([]domain.Order, error) {
	var rows []pedido
	if err := g.c.GetJSON(ctx, fmt.Sprintf("/pedido/cliente/%d", clientID), &rows); err != nil {
		return nil, fmt.Errorf("list orders of client %d: %w", clientID, err)
	}

	out := make([]domain.Order, 0, len(rows))
	for _, p := range rows {
		o := domain.Order{
			ID:          p.ID,
			Status:      domain.Status(p.Estado),
			Total:       decimal.NewFromFloat(p.Total),
			Fulfillment: domain.FulfillmentType(p.TipoEnvio),
			Payment:     domain.PaymentMethod(p.FormaPago),
			BranchName:  p.Sucursal.Nombre,
		}
		if t, err := time.Parse(dateLayout, p.FechaPedido); err == nil {
			o.PlacedAt = t
		}
		for _, d := range p.DetallePedidos {
			det := domain.Detail{
				ArticleID: d.Articulo.ID,
				Name:      d.Articulo.Denominacion,
				Quantity:  d.Cantidad,
				Subtotal:  decimal.NewFromFloat(d.SubTotal),
			}
			if d.Promocion != nil {
				det.BundleID = catalog.ItemID(catalog.KindPromotion, d.Promocion.ID)
			}
			o.Details = append(o.Details, det)
		}
		out = append(out, o)
	}
	return out, nil
}
