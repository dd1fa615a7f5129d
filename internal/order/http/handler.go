package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	cart "github.com/dwikikusuma/buensabor-storefront/internal/cart/domain"
	"github.com/dwikikusuma/buensabor-storefront/internal/order/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/order/domain"
	"github.com/dwikikusuma/buensabor-storefront/pkg/httpx"
	"github.com/dwikikusuma/buensabor-storefront/pkg/restclient"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Sessions interface {
	Get(ctx context.Context, sessionID string) (cart.State, error)
}

type Handler struct {
	svc      *app.Service
	sessions Sessions
}

func NewHandler(svc *app.Service, sessions Sessions) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/orders", h.History)
}

type DetailView struct {
	ArticleID int64           `json:"article_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderView struct {
	ID          int64           `json:"id"`
	Status      string          `json:"status"`
	Total       decimal.Decimal `json:"total"`
	PlacedAt    string          `json:"placed_at,omitempty"`
	Fulfillment string          `json:"fulfillment"`
	Payment     string          `json:"payment"`
	Branch      string          `json:"branch,omitempty"`
	Details     []DetailView    `json:"details"`
}

type HistoryView struct {
	Current  []OrderView `json:"current"`
	Previous []OrderView `json:"previous"`
}

func toOrderViews(orders []domain.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		v := OrderView{
			ID:          o.ID,
			Status:      string(o.Status),
			Total:       o.Total,
			Fulfillment: string(o.Fulfillment),
			Payment:     string(o.Payment),
			Branch:      o.BranchName,
			Details:     make([]DetailView, 0, len(o.Details)),
		}
		if !o.PlacedAt.IsZero() {
			v.PlacedAt = o.PlacedAt.Format(time.DateOnly)
		}
		for _, d := range o.Details {
			v.Details = append(v.Details, DetailView{ArticleID: d.ArticleID, Name: d.Name, Quantity: d.Quantity, Subtotal: d.Subtotal})
		}
		out = append(out, v)
	}
	return out
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	st, err := h.sessions.Get(r.Context(), httpx.SessionID(r.Context()))
	if err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}
	if st.User == nil {
		httpx.WriteError(w, r, mapErr(app.ErrNotAuthenticated))
		return
	}

	hist, err := h.svc.History(r.Context(), st.User.ID)
	if err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, HistoryView{
		Current:  toOrderViews(hist.Current),
		Previous: toOrderViews(hist.Previous),
	})
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, app.ErrNotAuthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, app.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, restclient.ErrTransport), errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.Unavailable, "order backend unavailable")
	}

	var se *restclient.StatusError
	if errors.As(err, &se) {
		return status.Errorf(codes.Unavailable, "order backend returned %d", se.StatusCode)
	}
	return status.Errorf(codes.Internal, "order: %v", err)
}
