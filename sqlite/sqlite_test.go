package sqlite_test

import (
	"context"
	"testing"

	"github.com/ichoosetoaccept/raycast-docset/sqlite"
	"github.com/stretchr/testify/require"
)

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates the search index schema on first open", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()

		var count int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM searchIndex").Scan(&count)
		require.NoError(t, err)
		require.Zero(t, count)
	})

	t.Run("creates the unique anchor index", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()

		var name string
		err = db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'anchor'").Scan(&name)
		require.NoError(t, err)
		require.Equal(t, "anchor", name)
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/docSet.dsidx")
		err := db.Open()
		require.Error(t, err)
	})

	t.Run("persists to a file database", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/docSet.dsidx"
		db := sqlite.NewDB(dbPath)
		err := db.Open()
		require.NoError(t, err)

		ctx := context.Background()
		_, err = db.ExecContext(ctx,
			"INSERT INTO searchIndex(name, type, path) VALUES ('Toast', 'Class', 'toast.html')")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		reopened := sqlite.NewDB(dbPath)
		require.NoError(t, reopened.Open())
		defer reopened.Close()

		var count int
		err = reopened.QueryRowContext(ctx, "SELECT COUNT(*) FROM searchIndex").Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})
}
