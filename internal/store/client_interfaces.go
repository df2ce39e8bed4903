package store

import (
	"context"

	"github.com/MKhiriev/ledger-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LocalLogRepository is the device-local outbox of pending log entries
// together with the stream of changes received from the server.
type LocalLogRepository interface {
	// Enqueue stores a locally recorded entry as unsynced.
	Enqueue(ctx context.Context, entry models.LogEntry) error
	// Pending returns unsynced and syncing entries in operated_at order.
	Pending(ctx context.Context) ([]models.LogEntry, error)
	// MarkSyncing flags entries that were handed to the transport.
	MarkSyncing(ctx context.Context, ids []string) error
	// CompleteRound records the server's per-entry results, stores the
	// received changes and advances the cursor in a single transaction.
	CompleteRound(ctx context.Context, results []models.LogResult, changes []models.LogEntry, syncTimeStamp int64) error
	// Changes lists received changes, oldest first.
	Changes(ctx context.Context, limit uint64) ([]models.LogEntry, error)
	// Failed lists local entries the server rejected.
	Failed(ctx context.Context) ([]models.LogEntry, error)
	// LastSyncTime returns the cursor sent as lastSyncTime, zero before the
	// first round.
	LastSyncTime(ctx context.Context) (int64, error)
}

// LocalSessionRepository persists the logged-in identity of the device.
type LocalSessionRepository interface {
	SaveSession(ctx context.Context, session models.Session) error
	Session(ctx context.Context) (models.Session, error)
}
