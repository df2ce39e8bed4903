package store

import (
	"context"
	"database/sql"

	"github.com/MKhiriev/ledger-sync/models"
)

// ErrorClassificator decides whether a database error is worth retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// Querier is the subset of *sql.DB and *sql.Tx used by repositories, so the
// same repository method runs inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Transactor runs fn inside a single database transaction. The transaction
// is committed when fn returns nil and rolled back otherwise, including when
// fn panics.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, q Querier) error) error
}

// RecordStore persists one business record type.
type RecordStore[T models.Record] interface {
	// Insert adds records; a duplicate id yields [ErrConstraintViolation].
	Insert(ctx context.Context, q Querier, records ...T) error
	// Update overwrites every column of the rows matching the records' ids.
	// A record without a matching row yields [ErrRecordNotFound].
	Update(ctx context.Context, q Querier, records ...T) error
	// Delete removes rows by id. Deleting a single missing id yields
	// [ErrRecordNotFound]; batch deletes remove whatever matches.
	Delete(ctx context.Context, q Querier, ids ...string) error
}

// VisibilityFilter selects the log entries a user may see.
type VisibilityFilter struct {
	UserID string

	// BookIDs are the books UserID may view; entries scoped to them are
	// included regardless of operator.
	BookIDs []string

	// After excludes entries synced at or before this epoch ms when non-nil.
	After *int64

	ExcludeIDs []string
}

// LogEntryRepository stores the replicated change log.
type LogEntryRepository interface {
	Insert(ctx context.Context, q Querier, entry models.LogEntry) error
	// InsertIfAbsent inserts entry unless its id or operation tuple already
	// exists, and reports whether a row was written.
	InsertIfAbsent(ctx context.Context, q Querier, entry models.LogEntry) (bool, error)
	FindByID(ctx context.Context, q Querier, id string) (models.LogEntry, error)
	FindVisible(ctx context.Context, q Querier, filter VisibilityFilter) ([]models.LogEntry, error)
}

// PermissionReader answers book membership questions. It never writes.
type PermissionReader interface {
	HasViewPermission(ctx context.Context, userID, bookID string) (bool, error)
	ViewableBookIDs(ctx context.Context, userID string) ([]string, error)
}

// UserRepository stores user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, q Querier, user models.User) error
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
}
