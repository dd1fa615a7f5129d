package memory

import (
	"context"
	"sync"

	"github.com/dwikikusuma/buensabor-storefront/internal/cart/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/cart/domain"
)

// StateRepo keeps carts in process memory. Carts are lost on restart.
type StateRepo struct {
	mu sync.RWMutex
	m  map[string]domain.State
}

func NewStateRepo() *StateRepo {
	return &StateRepo{m: make(map[string]domain.State)}
}

var _ app.StateRepo = (*StateRepo)(nil)

func (r *StateRepo) Load(ctx context.Context, sessionID string) (domain.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.m[sessionID]
	if !ok {
		return domain.State{}, app.ErrNotFound
	}
	return st, nil
}

func (r *StateRepo) Save(ctx context.Context, sessionID string, s domain.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[sessionID] = s
	return nil
}

func (r *StateRepo) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, sessionID)
	return nil
}
