package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db, zap.NewNop()), mock
}

func TestPostgresStore_Get(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT value FROM console_storage WHERE key = $1`)

	t.Run("found", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(query).
			WithArgs("token").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("abc.def.ghi"))

		got, err := s.Get(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(query).
			WithArgs("token").
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		_, err := s.Get(ctx, "token")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(query).
			WithArgs("token").
			WillReturnError(errors.New("connection reset"))

		_, err := s.Get(ctx, "token")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestPostgresStore_Set(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO console_storage").
		WithArgs("token", "abc.def.ghi").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Set(ctx, "token", "abc.def.ghi"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`DELETE FROM console_storage WHERE key = $1`)

	t.Run("existing key", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(query).WithArgs("token").WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Delete(ctx, "token"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent key is not an error", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(query).WithArgs("token").WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, s.Delete(ctx, "token"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS console_storage").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
