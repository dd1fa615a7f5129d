package domain

import (
	"time"

	"github.com/dwikikusuma/buensabor-storefront/internal/geo"
	"github.com/shopspring/decimal"
)

type FulfillmentType string

const (
	Delivery FulfillmentType = "DELIVERY"
	TakeAway FulfillmentType = "TAKE_AWAY"
)

func (f FulfillmentType) Valid() bool { return f == Delivery || f == TakeAway }

type PaymentMethod string

const (
	Cash        PaymentMethod = "EFECTIVO"
	MercadoPago PaymentMethod = "MERCADO_PAGO"
)

func (p PaymentMethod) Valid() bool { return p == Cash || p == MercadoPago }

type Status string

const (
	StatusPending     Status = "PENDIENTE"
	StatusPreparing   Status = "PREPARACION"
	StatusReadyPickup Status = "RETIRAR"
	StatusDelivered   Status = "ENTREGADO"
	StatusRejected    Status = "RECHAZADO"
	StatusCancelled   Status = "CANCELADO"
)

// Current reports whether an order with this status is still in progress.
func (s Status) Current() bool {
	switch s {
	case StatusPending, StatusReadyPickup, StatusPreparing:
		return true
	}
	return false
}

// Detail is one order line. Details expanded from a bundle carry BundleID and a
// zero Subtotal; the bundle price is charged once in the order total.
type Detail struct {
	ArticleID int64
	Name      string
	Quantity  int
	Subtotal  decimal.Decimal
	BundleID  string
}

// Submission is the payload sent to the order endpoint.
type Submission struct {
	IdempotencyKey string
	ClientID       int64
	BranchID       int64
	Fulfillment    FulfillmentType
	Payment        PaymentMethod
	Status         Status
	Total          decimal.Decimal
	Surcharge      decimal.Decimal
	Address        geo.Address
	Details        []Detail
	CreatedAt      time.Time
}

// Result is the backend's answer to a submission. Its Status is authoritative.
type Result struct {
	OrderID int64
	Status  Status
}

// Order is a placed order as listed in the client's history.
type Order struct {
	ID          int64
	Status      Status
	Total       decimal.Decimal
	PlacedAt    time.Time
	Fulfillment FulfillmentType
	Payment     PaymentMethod
	BranchName  string
	Details     []Detail
}
