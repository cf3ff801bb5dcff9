package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/CTAG07/Nomenclator/internal/config"
	"github.com/CTAG07/Nomenclator/pkg/corpus"
)

// openStore opens the SQLite corpus cache at path, creating its directory and
// schema as needed. The returned cleanup function closes both the store and
// the database.
func openStore(path string, logger *slog.Logger) (*corpus.Store, func(), error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = corpus.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to setup corpus schema: %w", err)
	}
	store, err := corpus.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to prepare corpus store: %w", err)
	}
	store.SetLogger(logger)

	cleanup := func() {
		store.Close()
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}
	return store, cleanup, nil
}

// newProvider returns the provider described by cfg, and the name its corpus
// is cached under.
func newProvider(cfg *config.CorpusConfig, logger *slog.Logger) (corpus.Provider, string, error) {
	if cfg.File != "" {
		return &corpus.FileProvider{Path: cfg.File, FoldDiacritics: cfg.FoldDiacritics}, cfg.File, nil
	}

	sel, err := corpus.ParseSelector(cfg.Selector)
	if err != nil {
		return nil, "", err
	}
	p := corpus.NewHTTPProvider(cfg.URL, sel,
		corpus.WithTimeout(time.Duration(cfg.TimeoutSec)*time.Second),
		corpus.WithFoldDiacritics(cfg.FoldDiacritics),
		corpus.WithHTTPLogger(logger),
	)
	return p, cfg.URL, nil
}

// loadCorpus fetches the training entries, going through the cache when a
// database path is configured.
func loadCorpus(ctx context.Context, cfg *config.CorpusConfig, logger *slog.Logger) ([]string, error) {
	provider, source, err := newProvider(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.DatabasePath != "" {
		store, cleanup, err := openStore(cfg.DatabasePath, logger)
		if err != nil {
			return nil, err
		}
		defer cleanup()

		cached := corpus.NewCachedProvider(provider, store, source, cfg.Refresh)
		cached.SetLogger(logger)
		provider = cached
	}

	names, err := provider.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus from '%s': %w", source, err)
	}
	logger.Info("Corpus loaded", "source", source, "names", len(names))
	return names, nil
}
