package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	cart "github.com/dwikikusuma/buensabor-storefront/internal/cart/domain"
	"github.com/dwikikusuma/buensabor-storefront/internal/customer/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/customer/domain"
	"github.com/dwikikusuma/buensabor-storefront/internal/geo"
	"github.com/dwikikusuma/buensabor-storefront/pkg/httpx"
	"github.com/dwikikusuma/buensabor-storefront/pkg/restclient"
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errNotLoggedIn = errors.New("not logged in")

// Sessions is the per-session state that carries the login marker.
type Sessions interface {
	Get(ctx context.Context, sessionID string) (cart.State, error)
	Dispatch(ctx context.Context, sessionID string, action cart.Action) (cart.State, error)
}

type Handler struct {
	svc      *app.Service
	sessions Sessions
}

func NewHandler(svc *app.Service, sessions Sessions) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/register", h.Register)
	r.Post("/auth/logout", h.Logout)
	r.Get("/profile", h.Profile)
}

type SessionView struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type ProfileView struct {
	ID        int64         `json:"id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	FullName  string        `json:"full_name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	BirthDate string        `json:"birth_date,omitempty"`
	Addresses []geo.Address `json:"addresses"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FirstName       string        `json:"first_name"`
	LastName        string        `json:"last_name"`
	Phone           string        `json:"phone"`
	Email           string        `json:"email"`
	Password        string        `json:"password"`
	ConfirmPassword string        `json:"confirm_password"`
	Addresses       []geo.Address `json:"addresses"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	sess, err := h.svc.Login(r.Context(), req.Email, req.Password)
	h.bind(w, r, sess, err)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	sess, err := h.svc.Register(r.Context(), domain.Registration{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Addresses:       req.Addresses,
	})
	h.bind(w, r, sess, err)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessions.Dispatch(r.Context(), httpx.SessionID(r.Context()), cart.SetUser{}); err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	st, err := h.sessions.Get(r.Context(), httpx.SessionID(r.Context()))
	if err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}
	if st.User == nil {
		httpx.WriteError(w, r, mapErr(errNotLoggedIn))
		return
	}

	c, err := h.svc.Profile(r.Context(), st.User.ID)
	if err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}

	v := ProfileView{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		Email:     c.Email,
		Phone:     c.Phone,
		Addresses: c.Addresses,
	}
	if !c.BirthDate.IsZero() {
		v.BirthDate = c.BirthDate.Format(time.DateOnly)
	}
	if v.Addresses == nil {
		v.Addresses = []geo.Address{}
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

// bind stores a successful login on the session.
func (h *Handler) bind(w http.ResponseWriter, r *http.Request, sess domain.Session, err error) {
	if err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}

	user := &cart.User{ID: sess.UserID, Username: sess.Username, Role: sess.Role}
	if _, err := h.sessions.Dispatch(r.Context(), httpx.SessionID(r.Context()), cart.SetUser{User: user}); err != nil {
		httpx.WriteError(w, r, mapErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SessionView{UserID: sess.UserID, Username: sess.Username, Role: sess.Role})
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, app.ErrInvalidCredentials.Error())
	case errors.Is(err, errNotLoggedIn):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, app.ErrRegistrationRejected):
		return status.Error(codes.FailedPrecondition, "the registration was rejected")
	case errors.Is(err, app.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, restclient.ErrTransport), errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.Unavailable, "client backend unavailable")
	}

	var se *restclient.StatusError
	if errors.As(err, &se) {
		return status.Errorf(codes.Unavailable, "client backend returned %d", se.StatusCode)
	}
	return status.Errorf(codes.Internal, "customer: %v", err)
}
