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

const logEntriesTable = "log_entries"

var logEntryColumns = []string{
	"id", "business_type", "operate_type", "parent_type", "parent_id",
	"operator_id", "operated_at", "business_id", "operate_data",
	"sync_state", "sync_time", "sync_error",
}

// logEntryRepository is the squirrel-backed [LogEntryRepository]. The same
// code serves the server's log_entries table and the device-local copies,
// which differ only in table name and placeholder format.
type logEntryRepository struct {
	table   string
	builder sq.StatementBuilderType
}

// NewLogEntryRepository returns the PostgreSQL [LogEntryRepository].
func NewLogEntryRepository() LogEntryRepository {
	return &logEntryRepository{table: logEntriesTable, builder: psql}
}

func logEntryValues(entry models.LogEntry) []any {
	return []any{
		entry.ID,
		string(entry.BusinessType),
		string(entry.OperateType),
		entry.ParentType,
		entry.ParentID,
		entry.OperatorID,
		entry.OperatedAt,
		entry.BusinessID.Key(),
		entry.OperateData,
		string(entry.SyncState),
		entry.SyncTime,
		entry.SyncError,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLogEntry(row rowScanner) (models.LogEntry, error) {
	var (
		entry        models.LogEntry
		businessType string
		operateType  string
		businessID   string
		syncState    string
	)

	err := row.Scan(
		&entry.ID,
		&businessType,
		&operateType,
		&entry.ParentType,
		&entry.ParentID,
		&entry.OperatorID,
		&entry.OperatedAt,
		&businessID,
		&entry.OperateData,
		&syncState,
		&entry.SyncTime,
		&entry.SyncError,
	)
	if err != nil {
		return models.LogEntry{}, err
	}

	entry.BusinessType = models.BusinessType(businessType)
	entry.OperateType = models.OperateType(operateType)
	entry.BusinessID = models.ParseBusinessIDs(businessID)
	entry.SyncState = models.SyncState(syncState)

	return entry, nil
}

func (r *logEntryRepository) Insert(ctx context.Context, q Querier, entry models.LogEntry) error {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.Insert(r.table).
		Columns(logEntryColumns...).
		Values(logEntryValues(entry)...).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "logEntryRepository.Insert").
			Str("log_id", entry.ID).
			Msg("failed to insert log entry")
		return writeError(err)
	}

	return nil
}

func (r *logEntryRepository) InsertIfAbsent(ctx context.Context, q Querier, entry models.LogEntry) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.Insert(r.table).
		Columns(logEntryColumns...).
		Values(logEntryValues(entry)...).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "logEntryRepository.InsertIfAbsent").
			Str("log_id", entry.ID).
			Msg("failed to insert log entry")
		return false, writeError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected > 0, nil
}

func (r *logEntryRepository) FindByID(ctx context.Context, q Querier, id string) (models.LogEntry, error) {
	query, args, err := r.builder.Select(logEntryColumns...).
		From(r.table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	entry, err := scanLogEntry(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.LogEntry{}, ErrLogEntryNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "logEntryRepository.FindByID").
			Str("log_id", id).
			Msg("failed to scan log entry")
		return models.LogEntry{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return entry, nil
}

// visibilityQuery builds the single query behind [LogEntryRepository.FindVisible]:
// synced entries that the user authored, that describe a user profile, or
// that are scoped to a book the user may view.
func (r *logEntryRepository) visibilityQuery(filter VisibilityFilter) sq.SelectBuilder {
	visible := sq.Or{
		sq.Eq{"operator_id": filter.UserID},
		sq.Eq{"business_type": string(models.BusinessTypeUser)},
	}
	if len(filter.BookIDs) > 0 {
		visible = append(visible, sq.And{
			sq.Eq{"parent_type": models.ParentTypeBook},
			sq.Eq{"parent_id": filter.BookIDs},
		})
	}

	builder := r.builder.Select(logEntryColumns...).
		From(r.table).
		Where(sq.Eq{"sync_state": string(models.SyncStateSynced)}).
		Where(visible)

	if filter.After != nil && *filter.After > 0 {
		builder = builder.Where(sq.Gt{"sync_time": *filter.After})
	}
	if len(filter.ExcludeIDs) > 0 {
		builder = builder.Where(sq.NotEq{"id": filter.ExcludeIDs})
	}

	return builder.OrderBy("operated_at ASC", "sync_time ASC", "id ASC")
}

func (r *logEntryRepository) FindVisible(ctx context.Context, q Querier, filter VisibilityFilter) ([]models.LogEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.visibilityQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "logEntryRepository.FindVisible").
			Str("user_id", filter.UserID).
			Msg("failed to query visible log entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	return collectLogEntries(ctx, rows)
}

func collectLogEntries(ctx context.Context, rows *sql.Rows) ([]models.LogEntry, error) {
	entries := make([]models.LogEntry, 0, 32)
	for rows.Next() {
		entry, err := scanLogEntry(rows)
		if err != nil {
			logger.FromContext(ctx).Err(err).Str("func", "collectLogEntries").Msg("failed to scan log entry row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}
