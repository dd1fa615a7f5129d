package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dwikikusuma/buensabor-storefront/internal/cart/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/cart/domain"
	catalog "github.com/dwikikusuma/buensabor-storefront/internal/catalog/domain"
	"github.com/dwikikusuma/buensabor-storefront/internal/geo"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*StateRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStateRepo(rdb, time.Hour), mr
}

func TestStateRepoRoundTrip(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	combo := catalog.Item{
		ID:         catalog.ItemID(catalog.KindPromotion, 7),
		SourceID:   7,
		Kind:       catalog.KindPromotion,
		Name:       "Combo",
		BasePrice:  decimal.RequireFromString("25"),
		PromoPrice: decimal.RequireFromString("25"),
		Components: []catalog.Component{{Quantity: 2, ArticleID: 10, Name: "Fries"}},
	}
	st := domain.State{}.
		Apply(domain.SetBranch{Branch: domain.BranchRef{ID: 1, Name: "Centro", Address: geo.Address{Street: "San Martín", Number: 100}}}).
		Apply(domain.SetUser{User: &domain.User{ID: 7, Username: "ana", Role: "user"}}).
		Apply(domain.AddItem{Item: combo}).
		Apply(domain.AddItem{Item: combo})

	require.NoError(t, repo.Save(ctx, "s1", st))
	require.Equal(t, time.Hour, mr.TTL(sessionKey("s1")))

	got, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "San Martín", got.Branch.Address.Street)
	require.Equal(t, "ana", got.User.Username)
	require.Len(t, got.Lines, 1)
	require.Equal(t, 2, got.Lines[0].Quantity)
	require.True(t, got.Lines[0].Item.IsBundle())
	require.Equal(t, "50.00", got.Total().StringFixed(2))
}

func TestStateRepoMissingAndExpired(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	_, err := repo.Load(ctx, "nobody")
	require.ErrorIs(t, err, app.ErrNotFound)

	require.NoError(t, repo.Save(ctx, "s1", domain.State{}))
	mr.FastForward(2 * time.Hour)
	_, err = repo.Load(ctx, "s1")
	require.ErrorIs(t, err, app.ErrNotFound)
}

func TestStateRepoDelete(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "s1", domain.State{}))
	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err := repo.Load(ctx, "s1")
	require.ErrorIs(t, err, app.ErrNotFound)
}
