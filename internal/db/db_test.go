package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAndMigrateSQLiteMemory(t *testing.T) {
	ctx := context.Background()
	database, err := Init(ctx, DriverSQLite, "file:dbtest?mode=memory&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(database) })

	require.NoError(t, RunMigrations(ctx, database.DB, DriverSQLite))

	var count int
	err = database.GetContext(ctx, &count, `SELECT COUNT(*) FROM goals`)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, MigrateDown(ctx, database.DB, DriverSQLite))
	_, err = database.ExecContext(ctx, `SELECT 1 FROM user_settings`)
	assert.Error(t, err)
}

func TestDialect(t *testing.T) {
	assert.Equal(t, "sqlite3", dialect(DriverSQLite))
	assert.Equal(t, "postgres", dialect(DriverPostgres))
	assert.Equal(t, "mysql", dialect("mysql"))
}
