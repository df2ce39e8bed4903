package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// recordStore is the squirrel-backed [RecordStore]. The table name and column
// list are taken from a template record built by newRecord.
type recordStore[T models.Record] struct {
	table   string
	columns []string
}

// NewRecordStore builds a [RecordStore] for the record type produced by
// newRecord.
func NewRecordStore[T models.Record](newRecord func() T) RecordStore[T] {
	template := newRecord()
	return &recordStore[T]{
		table:   template.TableName(),
		columns: template.Columns(),
	}
}

func (s *recordStore[T]) Insert(ctx context.Context, q Querier, records ...T) error {
	if len(records) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	builder := psql.Insert(s.table).Columns(s.columns...)
	for _, record := range records {
		builder = builder.Values(record.Values()...)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "recordStore.Insert").
			Str("table", s.table).
			Int("count", len(records)).
			Msg("failed to insert records")
		return writeError(err)
	}

	return nil
}

func (s *recordStore[T]) Update(ctx context.Context, q Querier, records ...T) error {
	log := logger.FromContext(ctx)

	for _, record := range records {
		values := record.Values()
		skip := map[string]bool{"id": true}
		if immutable, ok := any(record).(models.ImmutableRecord); ok {
			for _, column := range immutable.ImmutableColumns() {
				skip[column] = true
			}
		}

		set := make(map[string]any, len(s.columns)-1)
		for i, column := range s.columns {
			if skip[column] {
				continue
			}
			set[column] = values[i]
		}

		query, args, err := psql.Update(s.table).
			SetMap(set).
			Where(sq.Eq{"id": record.PrimaryKey()}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		result, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			log.Err(err).
				Str("func", "recordStore.Update").
				Str("table", s.table).
				Str("id", record.PrimaryKey()).
				Msg("failed to update record")
			return writeError(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s %s", ErrRecordNotFound, s.table, record.PrimaryKey())
		}
	}

	return nil
}

func (s *recordStore[T]) Delete(ctx context.Context, q Querier, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	var where sq.Eq
	if len(ids) == 1 {
		where = sq.Eq{"id": ids[0]}
	} else {
		where = sq.Eq{"id": ids}
	}

	query, args, err := psql.Delete(s.table).Where(where).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordStore.Delete").
			Str("table", s.table).
			Int("count", len(ids)).
			Msg("failed to delete records")
		return writeError(err)
	}

	if len(ids) > 1 {
		return nil
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s %s", ErrRecordNotFound, s.table, ids[0])
	}

	return nil
}
