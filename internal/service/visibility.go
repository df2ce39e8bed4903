package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/internal/store"
	"github.com/MKhiriev/ledger-sync/models"
)

// visibilityResolver unions three scopes in a single query: the caller's own
// entries, every user-profile entry, and entries of books the caller may
// view. Only synced entries are ever returned.
type visibilityResolver struct {
	db          store.Querier
	logEntries  store.LogEntryRepository
	permissions store.PermissionReader
}

func NewVisibilityResolver(db store.Querier, logEntries store.LogEntryRepository, permissions store.PermissionReader) VisibilityResolver {
	return &visibilityResolver{
		db:          db,
		logEntries:  logEntries,
		permissions: permissions,
	}
}

func (r *visibilityResolver) Resolve(ctx context.Context, userID string, lastSyncTime *int64, excludeIDs []string) ([]models.LogEntry, error) {
	log := logger.FromContext(ctx)

	bookIDs, err := r.permissions.ViewableBookIDs(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "visibilityResolver.Resolve").Str("user_id", userID).Msg("failed to read book permissions")
		return nil, fmt.Errorf("reading book permissions: %w", err)
	}

	filter := store.VisibilityFilter{
		UserID:     userID,
		BookIDs:    bookIDs,
		ExcludeIDs: excludeIDs,
	}
	if lastSyncTime != nil && *lastSyncTime > 0 {
		filter.After = lastSyncTime
	}

	entries, err := r.logEntries.FindVisible(ctx, r.db, filter)
	if err != nil {
		log.Err(err).Str("func", "visibilityResolver.Resolve").Str("user_id", userID).Msg("failed to query visible log entries")
		return nil, fmt.Errorf("querying visible log entries: %w", err)
	}

	log.Debug().
		Str("func", "visibilityResolver.Resolve").
		Str("user_id", userID).
		Int("books", len(bookIDs)).
		Int("changes", len(entries)).
		Msg("resolved visible changes")

	return entries, nil
}
