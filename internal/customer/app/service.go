package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dwikikusuma/buensabor-storefront/internal/customer/domain"
	"github.com/dwikikusuma/buensabor-storefront/internal/geo"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrRegistrationRejected = errors.New("registration rejected")
	ErrNotFound             = errors.New("client not found")
)

type Service struct {
	backend Backend
	log     *slog.Logger
}

func NewService(backend Backend, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{backend: backend, log: log}
}

func (s *Service) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Session{}, ErrInvalidInput
	}

	id, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	return s.session(ctx, id, email), nil
}

// Register creates the client and logs it in.
func (s *Service) Register(ctx context.Context, r domain.Registration) (domain.Session, error) {
	if err := r.Validate(); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for i, a := range r.Addresses {
		if err := a.Validate(); err != nil {
			return domain.Session{}, fmt.Errorf("%w: address %d: %v", ErrInvalidInput, i, err)
		}
	}

	id, err := s.backend.Register(ctx, r)
	if err != nil {
		return domain.Session{}, err
	}
	return s.session(ctx, id, r.Email), nil
}

func (s *Service) Profile(ctx context.Context, clientID int64) (domain.Client, error) {
	if clientID <= 0 {
		return domain.Client{}, ErrInvalidInput
	}
	return s.backend.Client(ctx, clientID)
}

// DeliveryAddress returns the address delivery orders go to. The bool is
// false when the client has none saved.
func (s *Service) DeliveryAddress(ctx context.Context, clientID int64) (geo.Address, bool, error) {
	c, err := s.Profile(ctx, clientID)
	if err != nil {
		return geo.Address{}, false, err
	}
	addr, ok := c.DeliveryAddress()
	return addr, ok, nil
}

// session names the user after the profile, falling back to the email when the
// profile cannot be read.
func (s *Service) session(ctx context.Context, id int64, email string) domain.Session {
	out := domain.Session{UserID: id, Username: email, Role: domain.RoleUser}

	c, err := s.backend.Client(ctx, id)
	if err != nil {
		s.log.Warn("profile lookup after login failed", slog.Int64("client_id", id), slog.Any("err", err))
		return out
	}
	if c.FirstName != "" {
		out.Username = c.FirstName
	}
	return out
}
