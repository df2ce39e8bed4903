package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ledger-sync/internal/config"
	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/models"
)

// Storages groups every server-side repository. Business record stores are
// exposed individually so the operation applier can register one handler
// per business type.
type Storages struct {
	DB *DB

	Transactor  Transactor
	LogEntries  LogEntryRepository
	Permissions PermissionReader
	Users       UserRepository

	Books       RecordStore[*models.Book]
	Categories  RecordStore[*models.Category]
	Funds       RecordStore[*models.Fund]
	Items       RecordStore[*models.Item]
	Shops       RecordStore[*models.Shop]
	Symbols     RecordStore[*models.Symbol]
	FundBooks   RecordStore[*models.FundBook]
	BookMembers RecordStore[*models.BookMember]
	UserRecords RecordStore[*models.User]
}

// NewStorages connects to PostgreSQL, applies migrations and builds all
// repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return NewStoragesFromDB(db, log), nil
}

// NewStoragesFromDB builds all repositories over an already opened database.
func NewStoragesFromDB(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		DB:          db,
		Transactor:  NewTransactor(db),
		LogEntries:  NewLogEntryRepository(),
		Permissions: NewPermissionReader(db),
		Users:       NewUserRepository(db, log),

		Books:       NewRecordStore(func() *models.Book { return new(models.Book) }),
		Categories:  NewRecordStore(func() *models.Category { return new(models.Category) }),
		Funds:       NewRecordStore(func() *models.Fund { return new(models.Fund) }),
		Items:       NewRecordStore(func() *models.Item { return new(models.Item) }),
		Shops:       NewRecordStore(func() *models.Shop { return new(models.Shop) }),
		Symbols:     NewRecordStore(func() *models.Symbol { return new(models.Symbol) }),
		FundBooks:   NewRecordStore(func() *models.FundBook { return new(models.FundBook) }),
		BookMembers: NewRecordStore(func() *models.BookMember { return new(models.BookMember) }),
		UserRecords: NewRecordStore(func() *models.User { return new(models.User) }),
	}
}

// Close releases the database connection pool.
func (s *Storages) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
