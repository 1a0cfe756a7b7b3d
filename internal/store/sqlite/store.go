// Package sqlite provides a SQLite-backed PreferenceStore.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/krishiapp/krishi-settings/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// Store keeps settings bags in a SQLite table, one row per key.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	key    string
}

// Open creates or opens the SQLite database at path and stores the bag under key.
// It configures WAL mode, sets pragmas, and applies the schema.
func Open(path, key string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One bag, tiny writes: a single connection keeps writes serialized.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=FULL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if key == "" {
		key = store.DefaultKey
	}

	if logger != nil {
		logger.Info("SQLite preference store opened", "path", path, "key", key)
	}

	return &Store{db: db, logger: logger, key: key}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// formatTime formats a time as RFC3339Nano for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
