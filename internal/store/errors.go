package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUsernameAlreadyExists is returned when a user cannot be registered
	// because the username is already taken.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrUserNotFound is returned when no user matches the requested username.
	ErrUserNotFound = errors.New("user was not found")

	// ErrRecordNotFound is returned when an update or a single delete targets
	// a business record that does not exist.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrConstraintViolation is returned when the database rejects a write
	// because of an integrity constraint (PostgreSQL class 23), for example a
	// duplicate primary key or a second log entry for the same operation.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrLogEntryNotFound is returned when no log entry has the requested id.
	ErrLogEntryNotFound = errors.New("log entry was not found")

	// ErrSessionNotFound is returned by the device-local store when no user
	// has logged in yet.
	ErrSessionNotFound = errors.New("local session not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when squirrel cannot render a query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when multi-row iteration fails midway.
	ErrScanningRows = errors.New("failed to scan rows")
)
