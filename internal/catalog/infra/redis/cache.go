package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dwikikusuma/buensabor-storefront/internal/catalog/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront:catalog"

// Cache is a read-through cache in front of another Backend. Redis failures are
// logged and the call falls through to the wrapped backend.
type Cache struct {
	next app.Backend
	rdb  redis.Cmdable
	ttl  time.Duration
	log  *slog.Logger
}

func NewCache(next app.Backend, rdb redis.Cmdable, ttl time.Duration, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{next: next, rdb: rdb, ttl: ttl, log: log}
}

var _ app.Backend = (*Cache)(nil)

func branchesKey(orgID int64) string { return fmt.Sprintf("%s:org:%d:branches", keyPrefix, orgID) }
func categoriesKey(branch int64) string {
	return fmt.Sprintf("%s:branch:%d:categories", keyPrefix, branch)
}
func promotionsKey(branch int64) string {
	return fmt.Sprintf("%s:branch:%d:promotions", keyPrefix, branch)
}

func (c *Cache) ListBranches(ctx context.Context, organizationID int64) ([]domain.Branch, error) {
	return readThrough(ctx, c, branchesKey(organizationID), func() ([]domain.Branch, error) {
		return c.next.ListBranches(ctx, organizationID)
	})
}

func (c *Cache) ListCategories(ctx context.Context, branchID int64) ([]domain.Category, error) {
	return readThrough(ctx, c, categoriesKey(branchID), func() ([]domain.Category, error) {
		return c.next.ListCategories(ctx, branchID)
	})
}

func (c *Cache) ListPromotions(ctx context.Context, branchID int64) ([]domain.Promotion, error) {
	return readThrough(ctx, c, promotionsKey(branchID), func() ([]domain.Promotion, error) {
		return c.next.ListPromotions(ctx, branchID)
	})
}

// Invalidate drops the cached categories and promotions of a branch.
func (c *Cache) Invalidate(ctx context.Context, branchID int64) error {
	return c.rdb.Del(ctx, categoriesKey(branchID), promotionsKey(branchID)).Err()
}

func readThrough[T any](ctx context.Context, c *Cache, key string, load func() (T, error)) (T, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if jerr := json.Unmarshal(raw, &v); jerr == nil {
			return v, nil
		}
		c.log.Warn("dropping undecodable catalog cache entry", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("catalog cache read failed", slog.String("key", key), slog.Any("err", err))
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	if raw, err := json.Marshal(v); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn("catalog cache write failed", slog.String("key", key), slog.Any("err", err))
		}
	}
	return v, nil
}
