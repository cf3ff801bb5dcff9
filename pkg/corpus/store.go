package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// ErrNotCached is returned by LoadEntries when no corpus is stored for a source.
var ErrNotCached = errors.New("corpus: source not cached")

// SetupSchema initializes the tables used by Store in the provided database.
// It is idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaSources = `
CREATE TABLE IF NOT EXISTS corpus_sources (
    source_id INTEGER PRIMARY KEY,
    source_name TEXT NOT NULL UNIQUE,
    fetched_at INTEGER NOT NULL
);
`
		schemaEntries = `
CREATE TABLE IF NOT EXISTS corpus_entries (
    source_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    entry_text TEXT NOT NULL,
    PRIMARY KEY (source_id, position)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	// If the transaction succeeds, tx.Commit() will be called first, and the rollback will do nothing.
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaSources); err != nil {
		return fmt.Errorf("could not create sources schema: %w", err)
	}

	if _, err = tx.Exec(schemaEntries); err != nil {
		return fmt.Errorf("could not create entries schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// SourceInfo describes one cached corpus.
type SourceInfo struct {
	Name      string
	FetchedAt time.Time
	Entries   int
}

// Store caches corpora fetched from remote sources so that they can be reused
// across runs. Only training text is stored; learned chains are never persisted.
type Store struct {
	db                *sql.DB
	stmtGetSourceID   *sql.Stmt
	stmtUpsertSource  *sql.Stmt
	stmtGetEntries    *sql.Stmt
	stmtDeleteEntries *sql.Stmt
	stmtInsertEntry   *sql.Stmt
	stmtListSources   *sql.Stmt
	logger            *slog.Logger
}

// NewStore creates a Store over db, which must already have the schema set up
// with SetupSchema. It pre-compiles all SQL statements; if any of them fails
// to compile, the ones already prepared are closed.
func NewStore(db *sql.DB) (*Store, error) {
	var prepared []*sql.Stmt
	prepare := func(query string) (*sql.Stmt, error) {
		stmt, err := db.Prepare(query)
		if err != nil {
			for _, p := range prepared {
				_ = p.Close()
			}
			return nil, fmt.Errorf("could not prepare statement: %w", err)
		}
		prepared = append(prepared, stmt)
		return stmt, nil
	}

	stmtGetSourceID, err := prepare(`SELECT source_id FROM corpus_sources WHERE source_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtUpsertSource, err := prepare(`INSERT INTO corpus_sources (source_name, fetched_at) VALUES (?, ?) ON CONFLICT(source_name) DO UPDATE SET fetched_at=excluded.fetched_at RETURNING source_id;`)
	if err != nil {
		return nil, err
	}

	stmtGetEntries, err := prepare(`SELECT entry_text FROM corpus_entries WHERE source_id = ? ORDER BY position;`)
	if err != nil {
		return nil, err
	}

	stmtDeleteEntries, err := prepare(`DELETE FROM corpus_entries WHERE source_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtInsertEntry, err := prepare(`INSERT INTO corpus_entries (source_id, position, entry_text) VALUES (?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtListSources, err := prepare(`
SELECT s.source_name, s.fetched_at, COUNT(e.position)
FROM corpus_sources s LEFT JOIN corpus_entries e ON e.source_id = s.source_id
GROUP BY s.source_id
ORDER BY s.source_name;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:                db,
		stmtGetSourceID:   stmtGetSourceID,
		stmtUpsertSource:  stmtUpsertSource,
		stmtGetEntries:    stmtGetEntries,
		stmtDeleteEntries: stmtDeleteEntries,
		stmtInsertEntry:   stmtInsertEntry,
		stmtListSources:   stmtListSources,
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared SQL statements held by the Store.
func (s *Store) Close() {
	_ = s.stmtGetSourceID.Close()
	_ = s.stmtUpsertSource.Close()
	_ = s.stmtGetEntries.Close()
	_ = s.stmtDeleteEntries.Close()
	_ = s.stmtInsertEntry.Close()
	_ = s.stmtListSources.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SaveEntries replaces the cached corpus for source with entries. The whole
// replacement happens in one transaction.
func (s *Store) SaveEntries(ctx context.Context, source string, entries []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var sourceID int
	if err = tx.StmtContext(ctx, s.stmtUpsertSource).QueryRowContext(ctx, source, time.Now().Unix()).Scan(&sourceID); err != nil {
		return fmt.Errorf("failed to upsert source '%s': %w", source, err)
	}

	if _, err = tx.StmtContext(ctx, s.stmtDeleteEntries).ExecContext(ctx, sourceID); err != nil {
		return fmt.Errorf("failed to clear entries for source '%s': %w", source, err)
	}

	stmtInsertEntry := tx.StmtContext(ctx, s.stmtInsertEntry)
	for i, entry := range entries {
		if _, err = stmtInsertEntry.ExecContext(ctx, sourceID, i, entry); err != nil {
			return fmt.Errorf("failed to insert entry %d for source '%s': %w", i, source, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit corpus for source '%s': %w", source, err)
	}

	s.logger.InfoContext(ctx, "Corpus cached",
		slog.String("source", source),
		slog.Int("source_id", sourceID),
		slog.Int("entries", len(entries)),
	)
	return nil
}

// LoadEntries returns the cached corpus for source in its original order.
// It returns ErrNotCached if the source was never saved.
func (s *Store) LoadEntries(ctx context.Context, source string) ([]string, error) {
	var sourceID int
	err := s.stmtGetSourceID.QueryRowContext(ctx, source).Scan(&sourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotCached
		}
		return nil, fmt.Errorf("could not get source ID for '%s': %w", source, err)
	}

	rows, err := s.stmtGetEntries.QueryContext(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	entries := make([]string, 0)
	for rows.Next() {
		var entry string
		if err = rows.Scan(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Sources lists every cached corpus, ordered by name.
func (s *Store) Sources(ctx context.Context) ([]SourceInfo, error) {
	rows, err := s.stmtListSources.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var sources []SourceInfo
	for rows.Next() {
		var info SourceInfo
		var fetchedAt int64
		if err = rows.Scan(&info.Name, &fetchedAt, &info.Entries); err != nil {
			return nil, err
		}
		info.FetchedAt = time.Unix(fetchedAt, 0)
		sources = append(sources, info)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return sources, nil
}

// RemoveSource deletes a cached corpus and all of its entries. Removing a
// source that is not cached is not an error.
func (s *Store) RemoveSource(ctx context.Context, source string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var sourceID int
	err = tx.StmtContext(ctx, s.stmtGetSourceID).QueryRowContext(ctx, source).Scan(&sourceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not get source ID for '%s': %w", source, err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM corpus_entries WHERE source_id = ?", sourceID); err != nil {
		return fmt.Errorf("failed to remove entries for source %d: %w", sourceID, err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM corpus_sources WHERE source_id = ?", sourceID); err != nil {
		return fmt.Errorf("failed to remove source %d: %w", sourceID, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit removal of source '%s': %w", source, err)
	}

	s.logger.InfoContext(ctx, "Cached corpus removed",
		slog.String("source", source),
		slog.Int("source_id", sourceID),
	)
	return nil
}
