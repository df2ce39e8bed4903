package service

import (
	"context"

	"github.com/MKhiriev/ledger-sync/models"
)

// ClientAuthService registers and logs in the device against the server and
// keeps the resulting session in the local store.
type ClientAuthService interface {
	// Register creates the account on the server and persists the issued
	// session locally.
	Register(ctx context.Context, user models.User) (models.Session, error)

	// Login authenticates against the server and persists the issued session
	// locally.
	Login(ctx context.Context, user models.User) (models.Session, error)

	// Session restores the persisted session and hands its token to the
	// transport. Returns [ErrNotLoggedIn] when the device never logged in.
	Session(ctx context.Context) (models.Session, error)
}

// ClientLogService records local mutations into the device outbox and exposes
// what the outbox and the received change stream hold.
type ClientLogService interface {
	// Record stamps entry with a fresh id, the current time and the logged-in
	// operator, then queues it as unsynced.
	Record(ctx context.Context, entry models.LogEntry) (models.LogEntry, error)

	Pending(ctx context.Context) ([]models.LogEntry, error)
	Failed(ctx context.Context) ([]models.LogEntry, error)
	Changes(ctx context.Context, limit uint64) ([]models.LogEntry, error)
}

// ClientSyncService runs synchronization rounds against the server.
type ClientSyncService interface {
	// Sync submits every pending entry together with the stored cursor and
	// stores the server's results and changes.
	Sync(ctx context.Context) (models.SyncResponse, error)

	// InitialSync downloads the full visible history. Local pending entries
	// are left untouched.
	InitialSync(ctx context.Context) (models.SyncResponse, error)
}
