package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/dwikikusuma/buensabor-storefront/internal/checkout/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/checkout/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:embed schema.sql
var schema string

const insertAttempt = `
INSERT INTO checkout_attempts
    (id, session_id, client_id, idempotency_key, total, outcome, status, message, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const upsertSession = `
INSERT INTO checkout_sessions (session_id, attempts, last_outcome, updated_at)
VALUES ($1, 1, $2, $3)
ON CONFLICT (session_id) DO UPDATE
SET attempts = checkout_sessions.attempts + 1,
    last_outcome = EXCLUDED.last_outcome,
    updated_at = EXCLUDED.updated_at`

const selectRecent = `
SELECT id, session_id, client_id, idempotency_key, total, outcome, status, message, created_at
FROM checkout_attempts
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2`

// Ledger keeps every checkout attempt plus a per-session rollup.
type Ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

var _ app.Ledger = (*Ledger)(nil)

func (l *Ledger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply ledger schema: %w", err)
	}
	return nil
}

func (l *Ledger) execTX(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func (l *Ledger) Record(ctx context.Context, a domain.Attempt) error {
	id, err := uuid.Parse(a.ID)
	if err != nil {
		return fmt.Errorf("attempt id: %w", err)
	}

	return l.execTX(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, insertAttempt,
			id, a.SessionID, a.ClientID, a.IdempotencyKey, a.Total.StringFixed(2),
			string(a.Outcome), a.Status, a.Message, a.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert attempt: %w", err)
		}

		if _, err := tx.ExecContext(ctx, upsertSession, a.SessionID, string(a.Outcome), a.CreatedAt); err != nil {
			return fmt.Errorf("failed to update session rollup: %w", err)
		}
		return nil
	})
}

// Recent returns the latest attempts of a session, newest first.
func (l *Ledger) Recent(ctx context.Context, sessionID string, limit int) ([]domain.Attempt, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := l.db.QueryContext(ctx, selectRecent, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []domain.Attempt
	for rows.Next() {
		var (
			a       domain.Attempt
			id      uuid.UUID
			total   string
			outcome string
		)
		if err := rows.Scan(&id, &a.SessionID, &a.ClientID, &a.IdempotencyKey, &total, &outcome, &a.Status, &a.Message, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.ID = id.String()
		a.Outcome = domain.OutcomeKind(outcome)
		if a.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("attempt %s total: %w", a.ID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
