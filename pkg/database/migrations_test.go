package database

import (
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_split_rates.sql":    {Data: []byte("ALTER TABLE a ADD COLUMN b TEXT;")},
		"001_initial_schema.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"README.md":              {Data: []byte("not a migration")},
	}

	migrations, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "initial_schema", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
	assert.Equal(t, "split_rates", migrations[1].Name)
}

func TestLoadMigrations_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"no version", fstest.MapFS{"initial.sql": {Data: []byte("")}}},
		{"duplicate version", fstest.MapFS{
			"001_a.sql": {Data: []byte("")},
			"001_b.sql": {Data: []byte("")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMigrations(tt.fsys)
			assert.Error(t, err)
		})
	}
}

func TestMigrator_RunMigrations_SkipsApplied(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db := Wrap(sqlx.NewDb(mockDB, "sqlite3"), zap.NewNop())

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("ALTER TABLE a ADD COLUMN b TEXT").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs(2, "split_rates").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	fsys := fstest.MapFS{
		"001_initial_schema.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"002_split_rates.sql":    {Data: []byte("ALTER TABLE a ADD COLUMN b TEXT;")},
	}

	require.NoError(t, NewMigrator(db, zap.NewNop()).RunMigrations(fsys))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"file:data/travel.db?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on",
		DSN("data/travel.db"))
}
