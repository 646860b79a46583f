package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewDB(sqlx.NewDb(mockDB, "sqlite3"), zap.NewNop()), mock
}

func TestWithTransaction_Commit(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := db.WithTransaction(context.Background(), func(ctx context.Context) error {
		_, isTx := db.Executor(ctx).(*sqlx.Tx)
		assert.True(t, isTx)
		_, err := db.Executor(ctx).ExecContext(ctx, "UPDATE users SET full_name = ?", "x")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := db.WithTransaction(context.Background(), func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_Nested(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := db.WithTransaction(context.Background(), func(ctx context.Context) error {
		return db.WithTransaction(ctx, func(ctx context.Context) error { return nil })
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutor_OutsideTransaction(t *testing.T) {
	db, _ := newMockDB(t)

	_, isDB := db.Executor(context.Background()).(*sqlx.DB)
	assert.True(t, isDB)
}
