package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/krishiapp/krishi-settings/internal/domain"
	"github.com/krishiapp/krishi-settings/internal/store"
)

// Load returns the stored bag, or ok=false if the key has no row.
func (s *Store) Load(ctx context.Context) (domain.UserSettings, bool, error) {
	rec, ok, err := s.LoadRecord(ctx)
	if err != nil || !ok {
		return domain.UserSettings{}, ok, err
	}
	return rec.Settings, true, nil
}

// LoadRecord returns the stored envelope.
func (s *Store) LoadRecord(ctx context.Context) (store.Record, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM preferences WHERE key = ?`, s.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, false, nil
	}
	if err != nil {
		return store.Record{}, false, err
	}

	rec, err := store.Decode([]byte(data))
	if err != nil {
		return store.Record{}, false, err
	}
	return rec, true, nil
}

// Save replaces the row for the key in one statement.
func (s *Store) Save(ctx context.Context, settings domain.UserSettings) error {
	rec := store.NewRecord(settings)
	data, err := rec.Marshal()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO preferences (key, revision, data, updated_at)
		VALUES (?, ?, ?, ?)`,
		s.key,
		rec.Revision,
		string(data),
		formatTime(rec.UpdatedAt),
	)
	return err
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
