package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dwikikusuma/buensabor-storefront/internal/catalog/app"
	"github.com/dwikikusuma/buensabor-storefront/pkg/httpx"
	"github.com/dwikikusuma/buensabor-storefront/pkg/restclient"
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Invalidator drops cached catalog data for a branch.
type Invalidator interface {
	Invalidate(ctx context.Context, branchID int64) error
}

type Handler struct {
	svc   *app.Service
	cache Invalidator
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

// WithCache mounts DELETE /branches/{branchID}/cache.
func (h *Handler) WithCache(c Invalidator) *Handler {
	h.cache = c
	return h
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/branches", h.ListBranches)
	r.Get("/branches/{branchID}", h.GetBranch)
	r.Get("/branches/{branchID}/menu", h.GetMenu)
	if h.cache != nil {
		r.Delete("/branches/{branchID}/cache", h.InvalidateBranch)
	}
}

func (h *Handler) InvalidateBranch(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "branchID")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.cache.Invalidate(r.Context(), id); err != nil {
		httpx.WriteError(w, r, status.Errorf(codes.Unavailable, "catalog cache: %v", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.svc.Branches(r.Context())
	if err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}

	out := make([]BranchView, 0, len(branches))
	for _, b := range branches {
		out = append(out, toBranchView(b))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetBranch(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "branchID")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	b, err := h.svc.Branch(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBranchView(b))
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "branchID")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	filter, err := app.ParseFilter(r.URL.Query().Get("category"))
	if err != nil {
		httpx.WriteError(w, r, status.Error(codes.InvalidArgument, "category must be all, promotions or a category id"))
		return
	}

	menu, err := h.svc.Menu(r.Context(), httpx.SessionID(r.Context()), id, filter)
	if err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMenuView(menu))
}

// PathID parses a positive integer URL parameter.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a positive integer", name)
	}
	return id, nil
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, app.ErrNotFound), restclient.IsStatus(err, http.StatusNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, app.ErrStaleSelection):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "backend timed out")
	case errors.Is(err, restclient.ErrTransport):
		return status.Error(codes.Unavailable, "catalog backend unavailable")
	}

	var se *restclient.StatusError
	if errors.As(err, &se) {
		return status.Errorf(codes.Unavailable, "catalog backend returned %d", se.StatusCode)
	}
	return status.Errorf(codes.Internal, "catalog: %v", err)
}
