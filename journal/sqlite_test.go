package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLiteStore, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','settings')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["settings"])
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	j, path := newTestSQLite(t)
	nt := newTrade("2024-04-10", "EURUSD", -1)
	nt.KeyLevels = []string{"1H", "4H"}
	created, err := j.Create(ctx, nt)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	j, err = NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	got, err := j.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"1H", "4H"}, got.KeyLevels)
	assert.Nil(t, got.RiskPercent)
	assert.Equal(t, -1.0, got.RealisedR)
}

func TestSQLiteListBetween(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	j, _ := newTestSQLite(t)
	defer j.Close()

	require.NoError(t, j.Save(ctx, []Trade{
		{Date: "2024-01-01", Symbol: "A", RealisedR: 1},
		{Date: "2024-01-15", Symbol: "B", RealisedR: 1},
		{Date: "2024-02-01", Symbol: "C", RealisedR: 1},
		{Date: "", Symbol: "D", RealisedR: 1},
	}))

	got, err := j.ListBetween(ctx, "2024-01-10", "2024-02-01")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Symbol)
	assert.Equal(t, "C", got[1].Symbol)

	rev, err := j.ListBetween(ctx, "2024-02-01", "2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, got, rev)
}
