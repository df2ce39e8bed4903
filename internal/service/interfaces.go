package service

import (
	"context"

	"github.com/MKhiriev/ledger-sync/internal/store"
	"github.com/MKhiriev/ledger-sync/models"
)

// BusinessHandler applies log entries to one business store. Every method
// runs on q, which is the per-entry transaction opened by the coordinator.
type BusinessHandler interface {
	ApplyCreate(ctx context.Context, q store.Querier, entry models.LogEntry) error
	ApplyUpdate(ctx context.Context, q store.Querier, entry models.LogEntry) error
	ApplyDelete(ctx context.Context, q store.Querier, entry models.LogEntry) error
	// ApplyBatch handles batchCreate, batchUpdate and batchDelete.
	ApplyBatch(ctx context.Context, q store.Querier, entry models.LogEntry) error
}

// OperationApplier routes a log entry to the handler registered for its
// business type.
type OperationApplier interface {
	Apply(ctx context.Context, q store.Querier, entry models.LogEntry) error
}

// VisibilityResolver returns the synced entries userID is entitled to see,
// ordered by operatedAt. It never writes.
type VisibilityResolver interface {
	Resolve(ctx context.Context, userID string, lastSyncTime *int64, excludeIDs []string) ([]models.LogEntry, error)
}

// Desensitizer masks sensitive fields of entries the requester did not
// perform. Entries are modified in place.
type Desensitizer interface {
	Desensitize(ctx context.Context, entries []models.LogEntry, requesterID string)
}

// SyncService runs synchronization rounds for authenticated users.
type SyncService interface {
	// Sync applies req.Logs in order and returns their results together with
	// the changes the caller has not seen since req.LastSyncTime.
	Sync(ctx context.Context, userID string, req models.SyncRequest) (models.SyncResponse, error)
	// InitialSync returns the full visible history without applying anything.
	InitialSync(ctx context.Context, userID string) (models.SyncResponse, error)
}

type AuthService interface {
	// Register creates the user together with its replicated log entry.
	Register(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
