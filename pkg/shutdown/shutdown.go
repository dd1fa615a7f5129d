package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(ch)
		select {
		case <-ctx.Done():
			return
		case sig := <-ch:
			slog.Info("signal received", slog.String("signal", sig.String()))
			cancel()
		}
	}()

	return ctx, cancel
}

// Bounded runs stop with a fresh context limited to timeout. When the deadline
// passes first, force is called and Bounded returns without waiting further.
func Bounded(timeout time.Duration, stop func(ctx context.Context) error, force func()) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- stop(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if force != nil {
			force()
		}
		return ctx.Err()
	}
}
