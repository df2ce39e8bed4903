// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/models"
)

const (
	pendingLogsTable     = "pending_logs"
	receivedChangesTable = "received_changes"
	syncCursorTable      = "sync_cursor"
	sessionTable         = "session"
)

// sqliteBuilder renders '?' placeholders.
var sqliteBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

type localLogRepository struct {
	db       *DB
	pending  *logEntryRepository
	received *logEntryRepository
}

// NewLocalLogRepository returns the SQLite-backed [LocalLogRepository].
func NewLocalLogRepository(db *DB) LocalLogRepository {
	return &localLogRepository{
		db:       db,
		pending:  &logEntryRepository{table: pendingLogsTable, builder: sqliteBuilder},
		received: &logEntryRepository{table: receivedChangesTable, builder: sqliteBuilder},
	}
}

func (l *localLogRepository) Enqueue(ctx context.Context, entry models.LogEntry) error {
	entry.SyncState = models.SyncStateUnsynced
	entry.SyncTime = nil
	entry.SyncError = nil

	return l.pending.Insert(ctx, l.db, entry)
}

func (l *localLogRepository) Pending(ctx context.Context) ([]models.LogEntry, error) {
	return l.selectPending(ctx, sq.Eq{"sync_state": []string{
		string(models.SyncStateUnsynced),
		string(models.SyncStateSyncing),
	}})
}

func (l *localLogRepository) Failed(ctx context.Context) ([]models.LogEntry, error) {
	return l.selectPending(ctx, sq.Eq{"sync_state": string(models.SyncStateFailed)})
}

func (l *localLogRepository) selectPending(ctx context.Context, where sq.Eq) ([]models.LogEntry, error) {
	query, args, err := sqliteBuilder.Select(logEntryColumns...).
		From(pendingLogsTable).
		Where(where).
		OrderBy("operated_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "localLogRepository.selectPending").Msg("failed to query local log entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	return collectLogEntries(ctx, rows)
}

func (l *localLogRepository) MarkSyncing(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqliteBuilder.Update(pendingLogsTable).
		Set("sync_state", string(models.SyncStateSyncing)).
		Where(sq.Eq{"id": ids, "sync_state": string(models.SyncStateUnsynced)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = l.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "localLogRepository.MarkSyncing").Msg("failed to mark entries as syncing")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (l *localLogRepository) CompleteRound(ctx context.Context, results []models.LogResult, changes []models.LogEntry, syncTimeStamp int64) error {
	log := logger.FromContext(ctx)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "localLogRepository.CompleteRound").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, result := range results {
		query, args, buildErr := sqliteBuilder.Update(pendingLogsTable).
			Set("sync_state", string(result.SyncState)).
			Set("sync_error", result.SyncError).
			Set("sync_time", syncTimeStamp).
			Where(sq.Eq{"id": result.LogID}).
			ToSql()
		if buildErr != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "localLogRepository.CompleteRound").
				Str("log_id", result.LogID).
				Msg("failed to record sync result")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	for _, change := range changes {
		if _, err = l.received.InsertIfAbsent(ctx, tx, change); err != nil {
			return err
		}
	}

	query, args, err := sqliteBuilder.Insert(syncCursorTable).
		Columns("id", "last_sync_time").
		Values(1, syncTimeStamp).
		Suffix("ON CONFLICT(id) DO UPDATE SET last_sync_time = excluded.last_sync_time").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "localLogRepository.CompleteRound").Msg("failed to advance sync cursor")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "localLogRepository.CompleteRound").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (l *localLogRepository) Changes(ctx context.Context, limit uint64) ([]models.LogEntry, error) {
	builder := sqliteBuilder.Select(logEntryColumns...).
		From(receivedChangesTable).
		OrderBy("operated_at ASC", "sync_time ASC", "id ASC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	return collectLogEntries(ctx, rows)
}

func (l *localLogRepository) LastSyncTime(ctx context.Context) (int64, error) {
	query, args, err := sqliteBuilder.Select("last_sync_time").
		From(syncCursorTable).
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var lastSyncTime int64
	err = l.db.QueryRowContext(ctx, query, args...).Scan(&lastSyncTime)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return lastSyncTime, nil
}

type localSessionRepository struct {
	db *DB
}

// NewLocalSessionRepository returns the SQLite-backed [LocalSessionRepository].
func NewLocalSessionRepository(db *DB) LocalSessionRepository {
	return &localSessionRepository{db: db}
}

func (s *localSessionRepository) SaveSession(ctx context.Context, session models.Session) error {
	query, args, err := sqliteBuilder.Insert(sessionTable).
		Columns("id", "user_id", "username", "token").
		Values(1, session.UserID, session.Username, session.Token).
		Suffix("ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, username = excluded.username, token = excluded.token").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "localSessionRepository.SaveSession").Msg("failed to save session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *localSessionRepository) Session(ctx context.Context) (models.Session, error) {
	query, args, err := sqliteBuilder.Select("user_id", "username", "token").
		From(sessionTable).
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var session models.Session
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&session.UserID, &session.Username, &session.Token)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return session, nil
}
