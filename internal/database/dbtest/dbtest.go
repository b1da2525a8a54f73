// Package dbtest provides migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/crm-api/internal/database"
)

// New returns a freshly migrated database in a temp directory that is closed
// when the test ends.
func New(tb testing.TB) *bun.DB {
	tb.Helper()

	db, err := database.OpenSQLite(context.Background(), filepath.Join(tb.TempDir(), "crm.db"))
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = db.Close() })

	require.NoError(tb, database.Migrate(db))

	return db
}
