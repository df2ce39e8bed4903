// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/internal/store"
	"github.com/MKhiriev/ledger-sync/internal/utils"
	"github.com/MKhiriev/ledger-sync/internal/validators"
	"github.com/MKhiriev/ledger-sync/models"
)

// idGenerator assigns ids to entries and users created by the server.
type idGenerator interface {
	Generate() string
}

// syncService is the sync coordinator. Each submitted entry is applied and
// recorded in its own transaction, strictly in submission order, so a failing
// entry never affects its siblings.
type syncService struct {
	transactor   store.Transactor
	db           store.Querier
	logEntries   store.LogEntryRepository
	applier      OperationApplier
	resolver     VisibilityResolver
	desensitizer Desensitizer
	validator    validators.Validator

	ids idGenerator
	now func() time.Time

	// retryable reports transient database failures; those abort the whole
	// round instead of failing a single entry.
	retryable func(error) bool

	// overlap re-reads the window before the cursor. An entry's syncTime is
	// stamped before its transaction commits, so it may become visible only
	// after a concurrent round has resolved past it.
	overlap time.Duration
}

// DefaultCursorOverlap is used when the server runs without a request
// timeout.
const DefaultCursorOverlap = time.Minute

// NewSyncService wires the coordinator to the server storages. requestTimeout
// bounds how long a stamped entry can stay uncommitted and becomes the cursor
// overlap.
func NewSyncService(storages *store.Storages, requestTimeout time.Duration) SyncService {
	overlap := requestTimeout
	if overlap <= 0 {
		overlap = DefaultCursorOverlap
	}

	return &syncService{
		transactor:   storages.Transactor,
		db:           storages.DB,
		logEntries:   storages.LogEntries,
		applier:      NewStoreApplier(storages),
		resolver:     NewVisibilityResolver(storages.DB, storages.LogEntries, storages.Permissions),
		desensitizer: NewDesensitizer(),
		validator:    validators.NewLogEntryValidator(),
		ids:          utils.NewUUIDGenerator(),
		now:          time.Now,
		retryable:    storages.DB.IsRetryable,
		overlap:      overlap,
	}
}

func (s *syncService) Sync(ctx context.Context, userID string, req models.SyncRequest) (models.SyncResponse, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return models.SyncResponse{}, ErrNoUserID
	}
	// entries are checked one by one by the applier; only the cursor can
	// invalidate the whole round
	if err := s.validator.Validate(ctx, req, validators.FieldLastSyncTime); err != nil {
		return models.SyncResponse{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	results := make([]models.LogResult, 0, len(req.Logs))
	for i := range req.Logs {
		if err := ctx.Err(); err != nil {
			return models.SyncResponse{}, err
		}

		entry := &req.Logs[i]
		if entry.ID == "" {
			entry.ID = s.ids.Generate()
		}

		result, err := s.process(ctx, userID, *entry)
		if err != nil {
			log.Err(err).Str("func", "syncService.Sync").Str("log_id", entry.ID).Msg("sync round aborted")
			return models.SyncResponse{}, err
		}
		results = append(results, result)
	}

	// taken before resolving; entries committed while resolving are picked up
	// by the next round through the overlap window
	syncTimeStamp := s.now().UnixMilli()

	changes, err := s.resolver.Resolve(ctx, userID, s.resolveCursor(req.LastSyncTime), req.SubmittedIDs())
	if err != nil {
		return models.SyncResponse{}, err
	}
	if changes == nil {
		changes = []models.LogEntry{}
	}
	s.desensitizer.Desensitize(ctx, changes, userID)

	log.Info().
		Str("func", "syncService.Sync").
		Str("user_id", userID).
		Int("submitted", len(req.Logs)).
		Int("changes", len(changes)).
		Msg("sync round finished")

	return models.SyncResponse{
		Results:       results,
		Changes:       changes,
		SyncTimeStamp: syncTimeStamp,
	}, nil
}

// resolveCursor moves the cursor back by the overlap window. Devices dedupe
// the re-sent entries by id.
func (s *syncService) resolveCursor(lastSyncTime *int64) *int64 {
	if lastSyncTime == nil || *lastSyncTime <= 0 || s.overlap <= 0 {
		return lastSyncTime
	}

	cursor := max(*lastSyncTime-s.overlap.Milliseconds(), 0)
	return &cursor
}

func (s *syncService) InitialSync(ctx context.Context, userID string) (models.SyncResponse, error) {
	return s.Sync(ctx, userID, models.SyncRequest{})
}

// process applies one entry. A returned error aborts the round; per-entry
// failures come back as a failed result.
func (s *syncService) process(ctx context.Context, userID string, entry models.LogEntry) (models.LogResult, error) {
	log := logger.FromContext(ctx)

	stored, err := s.logEntries.FindByID(ctx, s.db, entry.ID)
	switch {
	case err == nil:
		// the id was already processed; report its outcome without re-applying
		return models.ResultOf(stored), nil
	case !errors.Is(err, store.ErrLogEntryNotFound):
		return models.LogResult{}, fmt.Errorf("looking up log entry %s: %w", entry.ID, err)
	}

	entry.SyncState = models.SyncStateUnsynced
	if err = entry.MarkSyncing(); err != nil {
		return models.LogResult{}, err
	}

	switch entry.OperatorID {
	case "":
		entry.OperatorID = userID
	case userID:
	default:
		// not attributable to the caller, so it is reported but not recorded
		failed := entry
		_ = failed.MarkFailed(s.now(), fmt.Errorf("%w: %s", ErrOperatorMismatch, entry.OperatorID))
		return models.ResultOf(failed), nil
	}

	synced := entry
	applyErr := s.transactor.WithinTransaction(ctx, func(ctx context.Context, q store.Querier) error {
		if err := s.applier.Apply(ctx, q, entry); err != nil {
			return err
		}
		if err := synced.MarkSynced(s.now()); err != nil {
			return err
		}
		return s.logEntries.Insert(ctx, q, synced)
	})
	if applyErr == nil {
		return models.ResultOf(synced), nil
	}
	if s.isInfrastructureError(applyErr) {
		return models.LogResult{}, applyErr
	}

	log.Warn().Err(applyErr).
		Str("func", "syncService.process").
		Str("log_id", entry.ID).
		Str("business_type", string(entry.BusinessType)).
		Str("operate_type", string(entry.OperateType)).
		Msg("log entry failed")

	failed := entry
	if err = failed.MarkFailed(s.now(), applyErr); err != nil {
		return models.LogResult{}, err
	}
	if _, err = s.logEntries.InsertIfAbsent(ctx, s.db, failed); err != nil {
		return models.LogResult{}, fmt.Errorf("recording failed log entry %s: %w", entry.ID, err)
	}

	return models.ResultOf(failed), nil
}

func (s *syncService) isInfrastructureError(err error) bool {
	switch {
	case errors.Is(err, store.ErrBeginningTransaction),
		errors.Is(err, store.ErrCommitingTransaction),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return s.retryable != nil && s.retryable(err)
}
