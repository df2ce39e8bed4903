package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorClassifier_Classify(t *testing.T) {
	c := NewPostgresErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "nil", err: nil, want: NonRetryable},
		{name: "plain error", err: errors.New("x"), want: NonRetryable},
		{name: "deadlock", err: pgError(pgerrcode.DeadlockDetected), want: Retryable},
		{name: "wrapped serialization failure", err: fmt.Errorf("tx: %w", pgError(pgerrcode.SerializationFailure)), want: Retryable},
		{name: "connection failure", err: pgError(pgerrcode.ConnectionFailure), want: Retryable},
		{name: "unique violation", err: pgError(pgerrcode.UniqueViolation), want: NonRetryable},
		{name: "syntax error", err: pgError(pgerrcode.SyntaxError), want: NonRetryable},
		{name: "admin shutdown", err: pgError(pgerrcode.AdminShutdown), want: Retryable},
		{name: "lock not available", err: pgError(pgerrcode.LockNotAvailable), want: NonRetryable},
		{name: "transaction rollback class", err: pgError(pgerrcode.TransactionIntegrityConstraintViolation), want: Retryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

func TestDB_IsRetryable(t *testing.T) {
	db, _ := newTestDB(t)
	assert.True(t, db.IsRetryable(pgError(pgerrcode.CannotConnectNow)))
	assert.False(t, db.IsRetryable(pgError(pgerrcode.CheckViolation)))

	bare := &DB{}
	assert.False(t, bare.IsRetryable(pgError(pgerrcode.DeadlockDetected)))
}

func TestWriteError(t *testing.T) {
	assert.ErrorIs(t, writeError(pgError(pgerrcode.ForeignKeyViolation)), ErrConstraintViolation)
	assert.ErrorIs(t, writeError(pgError(pgerrcode.CheckViolation)), ErrConstraintViolation)
	assert.ErrorIs(t, writeError(errors.New("eof")), ErrExecutingStatement)
	assert.NotErrorIs(t, writeError(errors.New("eof")), ErrConstraintViolation)
}
