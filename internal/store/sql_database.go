package store

import (
	"database/sql"

	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/migrations"
)

// DB is a database handle shared by every repository of one process.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies the server schema.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// MigrateClient applies the device-local schema.
func (db *DB) MigrateClient() error {
	return migrations.MigrateClient(db.DB)
}
