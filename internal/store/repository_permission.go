package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/ledger-sync/internal/logger"
)

// permissionReader reads book_members. Only can_view_book matters for
// replication; the edit and delete flags are enforced elsewhere.
type permissionReader struct {
	db *DB
}

// NewPermissionReader returns a [PermissionReader] over db.
func NewPermissionReader(db *DB) PermissionReader {
	return &permissionReader{db: db}
}

func (p *permissionReader) HasViewPermission(ctx context.Context, userID, bookID string) (bool, error) {
	query, args, err := psql.Select("1").
		From("book_members").
		Where(sq.Eq{"user_id": userID, "book_id": bookID, "can_view_book": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var one int
	err = p.db.QueryRowContext(ctx, query, args...).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		logger.FromContext(ctx).Err(err).
			Str("func", "permissionReader.HasViewPermission").
			Str("user_id", userID).
			Str("book_id", bookID).
			Msg("failed to read book membership")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return true, nil
}

func (p *permissionReader) ViewableBookIDs(ctx context.Context, userID string) ([]string, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Select("DISTINCT book_id").
		From("book_members").
		Where(sq.Eq{"user_id": userID, "can_view_book": true}).
		OrderBy("book_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "permissionReader.ViewableBookIDs").
			Str("user_id", userID).
			Msg("failed to query viewable books")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	bookIDs := make([]string, 0, 8)
	for rows.Next() {
		var bookID string
		if err = rows.Scan(&bookID); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		bookIDs = append(bookIDs, bookID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return bookIDs, nil
}
