package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dwikikusuma/buensabor-storefront/internal/checkout/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/checkout/domain"
	orderapp "github.com/dwikikusuma/buensabor-storefront/internal/order/app"
	order "github.com/dwikikusuma/buensabor-storefront/internal/order/domain"
	"github.com/dwikikusuma/buensabor-storefront/pkg/httpx"
	"github.com/dwikikusuma/buensabor-storefront/pkg/restclient"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultAttemptLimit = 20

type Inbox interface {
	Drain(sessionID string) []domain.Notification
}

type Attempts interface {
	Recent(ctx context.Context, sessionID string, limit int) ([]domain.Attempt, error)
}

type Handler struct {
	svc      *app.Service
	inbox    Inbox
	attempts Attempts
}

// NewHandler builds the checkout routes. attempts may be nil when no ledger is
// configured; the attempts route is then not mounted.
func NewHandler(svc *app.Service, inbox Inbox, attempts Attempts) *Handler {
	return &Handler{svc: svc, inbox: inbox, attempts: attempts}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/checkout", func(r chi.Router) {
		r.Post("/", h.Checkout)
		r.Get("/quote", h.Quote)
		if h.attempts != nil {
			r.Get("/attempts", h.Attempts)
		}
	})
	r.Get("/notifications", h.Notifications)
}

type checkoutRequest struct {
	Fulfillment string `json:"fulfillment"`
	Payment     string `json:"payment"`
}

type OutcomeView struct {
	Outcome     string `json:"outcome"`
	OrderID     int64  `json:"order_id,omitempty"`
	Status      string `json:"status,omitempty"`
	Message     string `json:"message"`
	RedirectURL string `json:"redirect_url,omitempty"`
	CartCleared bool   `json:"cart_cleared"`
}

func NewOutcomeView(o domain.Outcome) OutcomeView {
	return OutcomeView{
		Outcome:     string(o.Kind),
		OrderID:     o.OrderID,
		Status:      o.Status,
		Message:     o.Message,
		RedirectURL: o.RedirectURL,
		CartCleared: o.CartCleared(),
	}
}

// Checkout always answers with the outcome so the storefront can show its
// message; the HTTP status tells success from rejection from failure.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if req.Payment == "" {
		req.Payment = string(order.Cash)
	}

	out, err := h.svc.Checkout(r.Context(), httpx.SessionID(r.Context()), app.Request{
		Fulfillment: order.FulfillmentType(req.Fulfillment),
		Payment:     order.PaymentMethod(req.Payment),
	})
	code := http.StatusOK
	if err != nil {
		code, _, _ = httpx.StatusFromGRPC(mapErr(err))
	}
	httpx.WriteJSON(w, code, NewOutcomeView(out))
}

type MoneyView struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

type QuoteLineView struct {
	ItemID    string    `json:"item_id"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
	UnitPrice MoneyView `json:"unit_price"`
	LineTotal MoneyView `json:"line_total"`
	Available bool      `json:"available"`
}

type QuoteView struct {
	Lines     []QuoteLineView `json:"lines"`
	Subtotal  MoneyView       `json:"subtotal"`
	Surcharge MoneyView       `json:"surcharge"`
	Total     MoneyView       `json:"total"`
	Changed   bool            `json:"changed"`
}

func moneyView(m domain.Money) MoneyView { return MoneyView{Currency: m.Currency, Amount: m.Amount} }

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	fulfillment := order.FulfillmentType(r.URL.Query().Get("fulfillment"))
	if fulfillment == "" {
		fulfillment = order.TakeAway
	}
	if !fulfillment.Valid() {
		httpx.WriteError(w, r, status.Errorf(codes.InvalidArgument, "unknown fulfillment %q", fulfillment))
		return
	}

	q, err := h.svc.Quote(r.Context(), httpx.SessionID(r.Context()), fulfillment)
	if err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}

	v := QuoteView{
		Lines:     make([]QuoteLineView, 0, len(q.Lines)),
		Subtotal:  moneyView(q.Subtotal),
		Surcharge: moneyView(q.Surcharge),
		Total:     moneyView(q.Total),
		Changed:   q.Changed,
	}
	for _, l := range q.Lines {
		v.Lines = append(v.Lines, QuoteLineView{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: moneyView(l.UnitPrice),
			LineTotal: moneyView(l.LineTotal),
			Available: l.Available,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

type NotificationView struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	OrderID int64     `json:"order_id,omitempty"`
	At      time.Time `json:"at"`
}

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	ns := h.inbox.Drain(httpx.SessionID(r.Context()))
	out := make([]NotificationView, 0, len(ns))
	for _, n := range ns {
		out = append(out, NotificationView{Kind: string(n.Kind), Message: n.Message, OrderID: n.OrderID, At: n.At})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type AttemptView struct {
	ID        string          `json:"id"`
	Outcome   string          `json:"outcome"`
	Status    string          `json:"status,omitempty"`
	Message   string          `json:"message"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

func (h *Handler) Attempts(w http.ResponseWriter, r *http.Request) {
	limit := defaultAttemptLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httpx.WriteError(w, r, status.Error(codes.InvalidArgument, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	as, err := h.attempts.Recent(r.Context(), httpx.SessionID(r.Context()), limit)
	if err != nil {
		httpx.WriteError(w, r, status.Errorf(codes.Unavailable, "checkout ledger: %v", err))
		return
	}
	out := make([]AttemptView, 0, len(as))
	for _, a := range as {
		out = append(out, AttemptView{
			ID:        a.ID,
			Outcome:   string(a.Outcome),
			Status:    a.Status,
			Message:   a.Message,
			Total:     a.Total,
			CreatedAt: a.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, orderapp.ErrNotAuthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case orderapp.IsPrecondition(err):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, orderapp.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, app.ErrOrderRejected):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, app.ErrPaymentUnavailable):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, app.ErrCheckoutFailed), errors.Is(err, restclient.ErrTransport), errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Errorf(codes.Internal, "checkout: %v", err)
}
