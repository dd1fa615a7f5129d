package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/dwikikusuma/buensabor-storefront/internal/cart/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/buensabor-storefront/internal/catalog/app"
	catalog "github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
	cataloghttp "github.com/dwikikusuma/buensabor-storefront/internal/catalog/http"
	"github.com/dwikikusuma/buensabor-storefront/internal/geo"
	"github.com/dwikikusuma/buensabor-storefront/pkg/httpx"
	"github.com/dwikikusuma/buensabor-storefront/pkg/restclient"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errNoBranch = errors.New("select a branch first")

// Catalog resolves the branch and item references a cart action names.
type Catalog interface {
	Branch(ctx context.Context, branchID int64) (catalog.Branch, error)
	Item(ctx context.Context, branchID int64, itemID string) (catalog.Item, error)
}

type Handler struct {
	svc      *app.Service
	catalog  Catalog
	onForget []func(sessionID string)
}

func NewHandler(svc *app.Service, catalog Catalog) *Handler {
	return &Handler{svc: svc, catalog: catalog}
}

// OnForget registers fn to run after a session is dropped.
func (h *Handler) OnForget(fn func(sessionID string)) *Handler {
	h.onForget = append(h.onForget, fn)
	return h
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Put("/branch", h.SetBranch)
		r.Post("/items", h.AddItem)
		r.Put("/items/{itemID}", h.SetQuantity)
		r.Delete("/items/{itemID}", h.RemoveItem)
	})
	r.Delete("/session", h.EndSession)
}

// EndSession drops everything stored for the session, cart and login included.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	sid := httpx.SessionID(r.Context())
	if err := h.svc.Forget(r.Context(), sid); err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}
	for _, fn := range h.onForget {
		fn(sid)
	}
	w.WriteHeader(http.StatusNoContent)
}

type LineView struct {
	Item      cataloghttp.ItemView `json:"item"`
	Quantity  int                  `json:"quantity"`
	LineTotal decimal.Decimal      `json:"line_total"`
}

type BranchView struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Address geo.Address `json:"address"`
}

type UserView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type CartView struct {
	Branch    *BranchView     `json:"branch"`
	User      *UserView       `json:"user"`
	Lines     []LineView      `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

func NewCartView(st domain.State) CartView {
	v := CartView{
		Lines:     make([]LineView, 0, len(st.Lines)),
		Total:     st.Total(),
		ItemCount: st.ItemCount(),
	}
	if b := st.Branch; b != nil {
		v.Branch = &BranchView{ID: b.ID, Name: b.Name, Address: b.Address}
	}
	if u := st.User; u != nil {
		v.User = &UserView{ID: u.ID, Username: u.Username, Role: u.Role}
	}
	for _, l := range st.Lines {
		v.Lines = append(v.Lines, LineView{
			Item:      cataloghttp.NewItemView(l.Item),
			Quantity:  l.Quantity,
			LineTotal: domain.LineTotal(l),
		})
	}
	return v
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Get(r.Context(), httpx.SessionID(r.Context()))
	h.reply(w, r, st, err)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Clear(r.Context(), httpx.SessionID(r.Context()))
	h.reply(w, r, st, err)
}

type setBranchRequest struct {
	BranchID int64 `json:"branch_id"`
}

func (h *Handler) SetBranch(w http.ResponseWriter, r *http.Request) {
	var req setBranchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	b, err := h.catalog.Branch(r.Context(), req.BranchID)
	if err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}

	st, err := h.svc.Dispatch(r.Context(), httpx.SessionID(r.Context()), domain.SetBranch{
		Branch: domain.BranchRef{ID: b.ID, Name: b.Name, Address: b.Address},
	})
	h.reply(w, r, st, err)
}

type addItemRequest struct {
	ItemID string `json:"item_id"`
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	sessionID := httpx.SessionID(r.Context())
	st, err := h.svc.Get(r.Context(), sessionID)
	if err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}
	if st.Branch == nil {
		httpx.WriteError(w, r, mapErr(errNoBranch))
		return
	}

	item, err := h.catalog.Item(r.Context(), st.Branch.ID, req.ItemID)
	if err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}

	st, err = h.svc.Dispatch(r.Context(), sessionID, domain.AddItem{Item: item, BranchID: st.Branch.ID})
	h.reply(w, r, st, err)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	st, err := h.svc.Dispatch(r.Context(), httpx.SessionID(r.Context()), domain.SetQuantity{
		ItemID:   chi.URLParam(r, "itemID"),
		Quantity: req.Quantity,
	})
	h.reply(w, r, st, err)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Dispatch(r.Context(), httpx.SessionID(r.Context()), domain.RemoveItem{
		ItemID: chi.URLParam(r, "itemID"),
	})
	h.reply(w, r, st, err)
}

func (h *Handler) reply(w http.ResponseWriter, r *http.Request, st domain.State, err error) {
	if err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, NewCartView(st))
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, catalogapp.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, errNoBranch):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrBranchChanged):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, catalogapp.ErrNotFound):
		return status.Error(codes.NotFound, "no such item or branch")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, restclient.ErrTransport), errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.Unavailable, "catalog backend unavailable")
	}

	var se *restclient.StatusError
	if errors.As(err, &se) {
		return status.Errorf(codes.Unavailable, "catalog backend returned %d", se.StatusCode)
	}
	return status.Errorf(codes.Internal, "cart: %v", err)
}
