package corpus

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// setupTestStore creates a new SQLite database file and a Store for testing.
// It uses t.Cleanup to ensure resources are released.
func setupTestStore(t *testing.T) (*sql.DB, *Store) {
	t.Helper()
	dbFile := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbFile)
	require.NoError(t, err, "failed to open database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, SetupSchema(db), "failed to set up schema")
	require.NoError(t, SetupSchema(db), "SetupSchema must be idempotent")

	s, err := NewStore(db)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return db, s
}

func TestStoreSaveAndLoad(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.LoadEntries(ctx, "names")
	assert.ErrorIs(t, err, ErrNotCached)

	require.NoError(t, s.SaveEntries(ctx, "names", []string{"brigid", "aedan", "brigid"}))
	entries, err := s.LoadEntries(ctx, "names")
	require.NoError(t, err)
	assert.Equal(t, []string{"brigid", "aedan", "brigid"}, entries, "entries keep their order and duplicates")

	// Saving again replaces rather than appends.
	require.NoError(t, s.SaveEntries(ctx, "names", []string{"niall"}))
	entries, err = s.LoadEntries(ctx, "names")
	require.NoError(t, err)
	assert.Equal(t, []string{"niall"}, entries)
}

func TestStoreEmptyCorpus(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveEntries(ctx, "empty", nil))
	entries, err := s.LoadEntries(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStoreSources(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveEntries(ctx, "b-source", []string{"one", "two"}))
	require.NoError(t, s.SaveEntries(ctx, "a-source", []string{"three"}))
	require.NoError(t, s.SaveEntries(ctx, "c-source", nil))

	sources, err := s.Sources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, "a-source", sources[0].Name)
	assert.Equal(t, 1, sources[0].Entries)
	assert.Equal(t, "b-source", sources[1].Name)
	assert.Equal(t, 2, sources[1].Entries)
	assert.Equal(t, 0, sources[2].Entries)
	assert.False(t, sources[0].FetchedAt.IsZero())
}

func TestStoreRemoveSource(t *testing.T) {
	db, s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveEntries(ctx, "to_delete", []string{"delete", "this"}))
	require.NoError(t, s.SaveEntries(ctx, "to_keep", []string{"keep"}))

	require.NoError(t, s.RemoveSource(ctx, "to_delete"))
	require.NoError(t, s.RemoveSource(ctx, "never_saved"))

	_, err := s.LoadEntries(ctx, "to_delete")
	assert.ErrorIs(t, err, ErrNotCached)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM corpus_entries").Scan(&count))
	assert.Equal(t, 1, count, "only the kept source's entries remain")

	entries, err := s.LoadEntries(ctx, "to_keep")
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, entries)
}

func TestStoreRemoveSourceLogsOnlyRemovals(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()
	var buf bytes.Buffer
	s.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, s.RemoveSource(ctx, "never_saved"))
	assert.NotContains(t, buf.String(), "Cached corpus removed")

	require.NoError(t, s.SaveEntries(ctx, "names", []string{"aoife"}))
	require.NoError(t, s.RemoveSource(ctx, "names"))
	assert.Contains(t, buf.String(), "Cached corpus removed")
}

func TestNewStoreWithoutEntriesTable(t *testing.T) {
	// The first two statements only touch corpus_sources and prepare fine;
	// the third needs corpus_entries and must fail.
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "partial.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE corpus_sources (source_id INTEGER PRIMARY KEY, source_name TEXT NOT NULL UNIQUE, fetched_at INTEGER NOT NULL);`)
	require.NoError(t, err)

	s, err := NewStore(db)
	assert.Nil(t, s)
	assert.ErrorContains(t, err, "could not prepare statement")

	// Once the schema is complete the same database works.
	require.NoError(t, SetupSchema(db))
	s, err = NewStore(db)
	require.NoError(t, err)
	s.Close()
}
