package redis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type countingBackend struct {
	calls atomic.Int32
	err   error
}

func (b *countingBackend) ListBranches(ctx context.Context, orgID int64) ([]domain.Branch, error) {
	b.calls.Add(1)
	return []domain.Branch{{ID: 1, Name: "Centro"}}, b.err
}

func (b *countingBackend) ListCategories(ctx context.Context, branchID int64) ([]domain.Category, error) {
	b.calls.Add(1)
	if b.err != nil {
		return nil, b.err
	}
	parent := int64(1)
	return []domain.Category{{
		ID:       2,
		Name:     "Hamburguesas",
		ParentID: &parent,
		Articles: []domain.Article{{ID: 20, Name: "Burger", SalePrice: decimal.RequireFromString("9.99")}},
	}}, nil
}

func (b *countingBackend) ListPromotions(ctx context.Context, branchID int64) ([]domain.Promotion, error) {
	b.calls.Add(1)
	return nil, b.err
}

func newCache(t *testing.T, next *countingBackend) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCache(next, rdb, time.Minute, nil), mr
}

func TestCacheReadThrough(t *testing.T) {
	next := &countingBackend{}
	c, mr := newCache(t, next)
	ctx := context.Background()

	first, err := c.ListCategories(ctx, 3)
	require.NoError(t, err)
	second, err := c.ListCategories(ctx, 3)
	require.NoError(t, err)

	require.Equal(t, int32(1), next.calls.Load())
	require.Equal(t, "Burger", second[0].Articles[0].Name)
	require.True(t, first[0].Articles[0].SalePrice.Equal(second[0].Articles[0].SalePrice))
	require.Equal(t, int64(1), *second[0].ParentID)
	require.True(t, mr.Exists(categoriesKey(3)))

	mr.FastForward(2 * time.Minute)
	_, err = c.ListCategories(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, int32(2), next.calls.Load())
}

func TestCacheDoesNotStoreErrors(t *testing.T) {
	next := &countingBackend{err: errors.New("down")}
	c, mr := newCache(t, next)

	_, err := c.ListCategories(context.Background(), 3)
	require.Error(t, err)
	require.False(t, mr.Exists(categoriesKey(3)))
}

func TestCacheFallsThroughWhenRedisDown(t *testing.T) {
	next := &countingBackend{}
	c, mr := newCache(t, next)
	mr.Close()

	branches, err := c.ListBranches(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, branches, 1)
}

func TestInvalidate(t *testing.T) {
	next := &countingBackend{}
	c, mr := newCache(t, next)
	ctx := context.Background()

	_, err := c.ListCategories(ctx, 3)
	require.NoError(t, err)
	_, err = c.ListPromotions(ctx, 3)
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx, 3))
	require.False(t, mr.Exists(categoriesKey(3)))
	require.False(t, mr.Exists(promotionsKey(3)))
}
