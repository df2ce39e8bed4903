package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/ledger-sync/internal/store"
	"github.com/MKhiriev/ledger-sync/internal/utils"
	"github.com/MKhiriev/ledger-sync/internal/validators"
	"github.com/MKhiriev/ledger-sync/models"
)

type clientLogService struct {
	logs      store.LocalLogRepository
	auth      ClientAuthService
	validator validators.Validator
	ids       idGenerator
	now       func() time.Time
}

func NewClientLogService(localStore *store.ClientStorages, auth ClientAuthService) ClientLogService {
	return &clientLogService{
		logs:      localStore.Logs,
		auth:      auth,
		validator: validators.NewLogEntryValidator(),
		ids:       utils.NewUUIDGenerator(),
		now:       time.Now,
	}
}

// Record fills the fields a device owns on every entry it produces. A
// caller-supplied id is kept so that retried writes stay idempotent.
func (s *clientLogService) Record(ctx context.Context, entry models.LogEntry) (models.LogEntry, error) {
	session, err := s.auth.Session(ctx)
	if err != nil {
		return models.LogEntry{}, err
	}

	if entry.ID == "" {
		entry.ID = s.ids.Generate()
	}
	if entry.OperatedAt == 0 {
		entry.OperatedAt = s.now().UnixMilli()
	}
	entry.OperatorID = session.UserID
	entry.SyncState = models.SyncStateUnsynced
	entry.SyncTime = nil
	entry.SyncError = nil

	if err = s.validator.Validate(ctx, entry); err != nil {
		return models.LogEntry{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if err = s.logs.Enqueue(ctx, entry); err != nil {
		return models.LogEntry{}, fmt.Errorf("enqueue log entry: %w", err)
	}

	return entry, nil
}

func (s *clientLogService) Pending(ctx context.Context) ([]models.LogEntry, error) {
	return s.logs.Pending(ctx)
}

func (s *clientLogService) Failed(ctx context.Context) ([]models.LogEntry, error) {
	return s.logs.Failed(ctx)
}

func (s *clientLogService) Changes(ctx context.Context, limit uint64) ([]models.LogEntry, error) {
	return s.logs.Changes(ctx, limit)
}
