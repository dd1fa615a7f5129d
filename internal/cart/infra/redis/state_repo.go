package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dwikikusuma/buensabor-storefront/internal/cart/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/cart/domain"
	"github.com/redis/go-redis/v9"
)

// StateRepo stores each session's cart as one JSON value. Every save refreshes
// the TTL, so an idle session expires after ttl.
type StateRepo struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewStateRepo(rdb redis.Cmdable, ttl time.Duration) *StateRepo {
	return &StateRepo{rdb: rdb, ttl: ttl}
}

var _ app.StateRepo = (*StateRepo)(nil)

func sessionKey(sessionID string) string {
	return fmt.Sprintf("storefront:session:%s:cart", sessionID)
}

func (r *StateRepo) Load(ctx context.Context, sessionID string) (domain.State, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.State{}, app.ErrNotFound
	}
	if err != nil {
		return domain.State{}, fmt.Errorf("get cart %s: %w", sessionID, err)
	}

	var st domain.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return domain.State{}, fmt.Errorf("decode cart %s: %w", sessionID, err)
	}
	return st, nil
}

func (r *StateRepo) Save(ctx context.Context, sessionID string, s domain.State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", sessionID, err)
	}
	if err := r.rdb.Set(ctx, sessionKey(sessionID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("set cart %s: %w", sessionID, err)
	}
	return nil
}

func (r *StateRepo) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, sessionKey(sessionID)).Err()
}
