package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/templui/ahorros/internal/db"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := db.Init(ctx, db.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&_pragma=foreign_keys(1)", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(ctx, database.DB, db.DriverSQLite))
	return database
}

// ticker returns a clock that advances one second per call.
func ticker() Clock {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func ptr[T any](v T) *T {
	return &v
}
