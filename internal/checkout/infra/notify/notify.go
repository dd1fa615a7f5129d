package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dwikikusuma/buensabor-storefront/internal/checkout/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/checkout/domain"
)

// Log writes notifications to the structured log.
type Log struct {
	log *slog.Logger
}

func NewLog(log *slog.Logger) *Log {
	if log == nil {
		log = slog.Default()
	}
	return &Log{log: log}
}

func (l *Log) Notify(ctx context.Context, n domain.Notification) {
	level := slog.LevelInfo
	if n.Kind == domain.OutcomeFailed || n.Kind == domain.OutcomeRejected {
		level = slog.LevelWarn
	}
	l.log.Log(ctx, level, "checkout notification",
		slog.String("session_id", n.SessionID),
		slog.String("kind", string(n.Kind)),
		slog.String("message", n.Message),
		slog.Int64("order_id", n.OrderID),
	)
}

// Inbox holds pending notifications per session until the client drains them.
// Only the newest max notifications of a session are kept.
type Inbox struct {
	mu  sync.Mutex
	max int
	m   map[string][]domain.Notification
}

func NewInbox(max int) *Inbox {
	if max <= 0 {
		max = 20
	}
	return &Inbox{max: max, m: make(map[string][]domain.Notification)}
}

func (b *Inbox) Notify(ctx context.Context, n domain.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := append(b.m[n.SessionID], n)
	if len(q) > b.max {
		q = q[len(q)-b.max:]
	}
	b.m[n.SessionID] = q
}

// Drain returns and forgets the session's notifications, oldest first.
func (b *Inbox) Drain(sessionID string) []domain.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := b.m[sessionID]
	delete(b.m, sessionID)
	return q
}

// Fanout delivers each notification to every notifier in order.
type Fanout []app.Notifier

func (f Fanout) Notify(ctx context.Context, n domain.Notification) {
	for _, x := range f {
		x.Notify(ctx, n)
	}
}
