package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/blogicum/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockUserRepository(t *testing.T) (*GormUserRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormUserRepository(db), mock, mockDB
}

func userRows(id uuid.UUID, username string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "display_name", "bio",
		"status", "failed_attempts", "created_at", "updated_at",
	}).AddRow(id, username, "", "hash", "", "", "active", 0, now, now)
}

func TestGormUserRepository_FindByID(t *testing.T) {
	repo, mock, mockDB := newMockUserRepository(t)
	defer mockDB.Close()

	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(userRows(id, "reader"))

		user, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "reader", user.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_FindByUsername(t *testing.T) {
	repo, mock, mockDB := newMockUserRepository(t)
	defer mockDB.Close()

	id := uuid.New()

	// lookups normalize the username before querying
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1 ORDER BY .* LIMIT .*`).
		WithArgs("reader", 1).
		WillReturnRows(userRows(id, "reader"))

	user, err := repo.FindByUsername(context.Background(), "  Reader ")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_ExistsByUsername(t *testing.T) {
	repo, mock, mockDB := newMockUserRepository(t)
	defer mockDB.Close()

	t.Run("exists", func(t *testing.T) {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE username = \$1`).
			WithArgs("reader").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByUsername(context.Background(), "Reader")
		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("does not exist", func(t *testing.T) {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE username = \$1`).
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByUsername(context.Background(), "nobody")
		require.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_Delete(t *testing.T) {
	repo, mock, mockDB := newMockUserRepository(t)
	defer mockDB.Close()

	id := uuid.New()

	t.Run("deletes existing user", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user returns ErrNotFound", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), id), shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
