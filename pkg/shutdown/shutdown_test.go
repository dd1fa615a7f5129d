package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBounded(t *testing.T) {
	t.Run("stop finishes in time", func(t *testing.T) {
		forced := false
		err := Bounded(time.Second, func(ctx context.Context) error { return nil }, func() { forced = true })
		require.NoError(t, err)
		require.False(t, forced)
	})

	t.Run("stop error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		err := Bounded(time.Second, func(ctx context.Context) error { return boom }, nil)
		require.ErrorIs(t, err, boom)
	})

	t.Run("deadline forces stop", func(t *testing.T) {
		forced := make(chan struct{})
		release := make(chan struct{})
		defer close(release)

		err := Bounded(20*time.Millisecond, func(ctx context.Context) error {
			<-release
			return nil
		}, func() { close(forced) })

		require.ErrorIs(t, err, context.DeadlineExceeded)
		select {
		case <-forced:
		default:
			t.Fatal("force was not called")
		}
	})
}

func TestWithSignalsCancel(t *testing.T) {
	ctx, cancel := WithSignals(context.Background())
	cancel()
	<-ctx.Done()
	require.ErrorIs(t, ctx.Err(), context.Canceled)
}
