package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dwikikusuma/buensabor-storefront/internal/checkout/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Ledger, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewLedger(db), mock
}

func attempt() domain.Attempt {
	return domain.Attempt{
		ID:             uuid.NewString(),
		SessionID:      "s1",
		ClientID:       7,
		IdempotencyKey: "key-1",
		Total:          decimal.RequireFromString("19.98"),
		Outcome:        domain.OutcomeAccepted,
		Status:         "PENDIENTE",
		Message:        "ok",
		CreatedAt:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordCommits(t *testing.T) {
	l, mock := newMock(t)
	a := attempt()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO checkout_attempts")).
		WithArgs(sqlmock.AnyArg(), "s1", int64(7), "key-1", "19.98", "accepted", "PENDIENTE", "ok", a.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO checkout_sessions")).
		WithArgs("s1", "accepted", a.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, l.Record(context.Background(), a))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRollsBack(t *testing.T) {
	l, mock := newMock(t)
	boom := errors.New("unique violation")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO checkout_attempts")).WillReturnError(boom)
	mock.ExpectRollback()

	err := l.Record(context.Background(), attempt())
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRejectsBadID(t *testing.T) {
	l, _ := newMock(t)
	a := attempt()
	a.ID = "nope"
	assert.Error(t, l.Record(context.Background(), a))
}

func TestRecent(t *testing.T) {
	l, mock := newMock(t)
	id := uuid.New()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "session_id", "client_id", "idempotency_key", "total", "outcome", "status", "message", "created_at"}).
		AddRow(id.String(), "s1", int64(7), "key-1", "19.98", "rejected", "RECHAZADO", "sin stock", at)
	mock.ExpectQuery(regexp.QuoteMeta("FROM checkout_attempts")).WithArgs("s1", 20).WillReturnRows(rows)

	got, err := l.Recent(context.Background(), "s1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id.String(), got[0].ID)
	assert.Equal(t, domain.OutcomeRejected, got[0].Outcome)
	assert.Equal(t, "19.98", got[0].Total.StringFixed(2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	l, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS checkout_attempts")).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, l.EnsureSchema(context.Background()))
}
