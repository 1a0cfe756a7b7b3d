package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/krishiapp/krishi-settings/internal/domain"
)

// Load returns the stored bag, or ok=false if nothing was saved yet.
func (s *Store) Load(ctx context.Context) (domain.UserSettings, bool, error) {
	rec, ok, err := s.LoadRecord(ctx)
	if err != nil || !ok {
		return domain.UserSettings{}, ok, err
	}
	return rec.Settings, true, nil
}

// LoadRecord returns the stored envelope including revision metadata.
func (s *Store) LoadRecord(ctx context.Context) (Record, bool, error) {
	if err := s.usable(ctx); err != nil {
		return Record{}, false, err
	}

	var (
		rec   Record
		found bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			decoded, err := Decode(val)
			if err != nil {
				return err
			}
			rec, found = decoded, true
			return nil
		})
	})
	if err != nil {
		return Record{}, false, err
	}
	return rec, found, nil
}

// Save replaces the stored bag in a single transaction.
func (s *Store) Save(ctx context.Context, settings domain.UserSettings) error {
	if err := s.usable(ctx); err != nil {
		return err
	}

	data, err := Encode(settings)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, data)
	})
}

// Delete removes the stored bag. The next Load reports it absent.
func (s *Store) Delete(ctx context.Context) error {
	if err := s.usable(ctx); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.key)
	})
}
