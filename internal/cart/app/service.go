package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dwikikusuma/buensabor-storefront/internal/cart/domain"
)

var (
	ErrNotFound     = errors.New("cart not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo  StateRepo
	locks *keyedMutex
}

func NewService(repo StateRepo) *Service {
	return &Service{
		repo:  repo,
		locks: newKeyedMutex(),
	}
}

// Get returns the session's cart. An unknown session has an empty cart.
func (s *Service) Get(ctx context.Context, sessionID string) (domain.State, error) {
	if sessionID == "" {
		return domain.State{}, ErrInvalidInput
	}
	st, err := s.repo.Load(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return domain.State{}, nil
	}
	return st, err
}

// Dispatch applies action to the session's cart and stores the result. Actions
// for one session are serialized. A branch-pinned action whose branch is no
// longer the cart's returns domain.ErrBranchChanged with the cart unchanged.
func (s *Service) Dispatch(ctx context.Context, sessionID string, action domain.Action) (domain.State, error) {
	if sessionID == "" || action == nil {
		return domain.State{}, ErrInvalidInput
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	st, err := s.Get(ctx, sessionID)
	if err != nil {
		return domain.State{}, fmt.Errorf("load cart: %w", err)
	}

	if err := st.Check(action); err != nil {
		return st, err
	}

	next := st.Apply(action)
	if err := s.repo.Save(ctx, sessionID, next); err != nil {
		return domain.State{}, fmt.Errorf("save cart: %w", err)
	}
	return next, nil
}

func (s *Service) Clear(ctx context.Context, sessionID string) (domain.State, error) {
	return s.Dispatch(ctx, sessionID, domain.Clear{})
}

// Forget drops the whole session, branch and user included.
func (s *Service) Forget(ctx context.Context, sessionID string) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()
	return s.repo.Delete(ctx, sessionID)
}

// keyedMutex hands out one mutex per key and frees it when nobody holds it.
type keyedMutex struct {
	mu sync.Mutex
	m  map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{m: make(map[string]*refMutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	rm, ok := k.m[key]
	if !ok {
		rm = &refMutex{}
		k.m[key] = rm
	}
	rm.refs++
	k.mu.Unlock()

	rm.Lock()
	return func() {
		rm.Unlock()
		k.mu.Lock()
		rm.refs--
		if rm.refs == 0 {
			delete(k.m, key)
		}
		k.mu.Unlock()
	}
}
