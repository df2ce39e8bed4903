package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ledger-sync/internal/config"
	"github.com/MKhiriev/ledger-sync/internal/logger"
)

// ClientStorages groups all device-local repositories into a single value
// that can be passed around the client service layer.
type ClientStorages struct {
	DB *DB

	// Logs is the outbox of pending entries and the received change stream.
	Logs LocalLogRepository

	// Sessions stores the logged-in identity.
	Sessions LocalSessionRepository
}

// NewClientStorages initialises the client storage layer:
//  1. Opens an SQLite connection to cfg.DB.DSN, creating the file if it does
//     not yet exist.
//  2. Runs pending schema migrations via [DB.MigrateClient].
//  3. Builds the repositories.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new client storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.MigrateClient(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		DB:       db,
		Logs:     NewLocalLogRepository(db),
		Sessions: NewLocalSessionRepository(db),
	}, nil
}

// Close releases the database handle.
func (s *ClientStorages) Close() error {
	return s.DB.Close()
}
