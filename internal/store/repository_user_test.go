package store

import (
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/models"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "username", "password", "nickname", "phone", "email", "avatar", "created_at", "updated_at"}

func TestCreateUser(t *testing.T) {
	user := models.User{ID: "u-1", Username: "alice", Password: "$2a$hash", Email: "a@example.com"}

	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{name: "success"},
		{name: "duplicate username", execErr: pgError(pgerrcode.UniqueViolation), wantErr: ErrUsernameAlreadyExists},
		{name: "not null violation", execErr: pgError(pgerrcode.NotNullViolation), wantErr: ErrConstraintViolation},
		{name: "driver error", execErr: errors.New("conn reset"), wantErr: ErrExecutingStatement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			repo := NewUserRepository(db, logger.Nop())

			exp := mock.ExpectExec(`INSERT INTO users \(id,username,password,nickname,phone,email,avatar,created_at,updated_at\)`).
				WithArgs("u-1", "alice", "$2a$hash", "", "", "a@example.com", "", int64(0), int64(0))
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.CreateUser(testContext(), db, user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFindUserByUsername(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewUserRepository(db, logger.Nop())

		mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow("u-1", "alice", "$2a$hash", "Al", "", "", "", int64(1), int64(2)))

		user, err := repo.FindUserByUsername(testContext(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)
		assert.Equal(t, "$2a$hash", user.Password)
		assert.Equal(t, "Al", user.Nickname)
		assert.Equal(t, int64(2), user.UpdatedAt)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewUserRepository(db, logger.Nop())

		mock.ExpectQuery(`SELECT .+ FROM users`).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindUserByUsername(testContext(), "ghost")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
