package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Money struct {
	Currency string
	Amount   decimal.Decimal
}

// QuoteLine is one cart line re-priced against the current catalog.
type QuoteLine struct {
	ItemID    string
	Name      string
	Quantity  int64
	UnitPrice Money
	LineTotal Money
	Available bool
}

type Quote struct {
	Lines     []QuoteLine
	Subtotal  Money
	Surcharge Money
	Total     Money
	// Changed is set when any line's price or availability differs from the cart.
	Changed bool
}

type OutcomeKind string

const (
	OutcomeAccepted OutcomeKind = "accepted"
	OutcomeRejected OutcomeKind = "rejected"
	OutcomeFailed   OutcomeKind = "failed"
	// OutcomeRedirect is an accepted order that still has to be paid on the
	// hosted payment page.
	OutcomeRedirect OutcomeKind = "redirect"
)

type Outcome struct {
	Kind        OutcomeKind
	OrderID     int64
	Status      string
	Message     string
	RedirectURL string
}

// CartCleared reports whether this outcome emptied the cart.
func (o Outcome) CartCleared() bool {
	return o.Kind == OutcomeAccepted || o.Kind == OutcomeRedirect
}

type Notification struct {
	SessionID string
	Kind      OutcomeKind
	Message   string
	OrderID   int64
	At        time.Time
}

type PaymentItem struct {
	Title     string
	Quantity  int
	Currency  string
	UnitPrice decimal.Decimal
}

type Preference struct {
	ID          string
	RedirectURL string
}

// Attempt is one checkout attempt as recorded in the ledger.
type Attempt struct {
	ID             string
	SessionID      string
	ClientID       int64
	IdempotencyKey string
	Total          decimal.Decimal
	Outcome        OutcomeKind
	Status         string
	Message        string
	CreatedAt      time.Time
}

// Event is what gets published for every finished checkout attempt.
type Event struct {
	AttemptID string          `json:"attempt_id"`
	SessionID string          `json:"session_id"`
	ClientID  int64           `json:"client_id"`
	OrderID   int64           `json:"order_id,omitempty"`
	Outcome   OutcomeKind     `json:"outcome"`
	Status    string          `json:"status,omitempty"`
	Total     decimal.Decimal `json:"total"`
	At        time.Time       `json:"at"`
}
