// Package store persists the settings bag. The default backend is Badger;
// sqlite and redis backends live in subpackages.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
)

// DefaultKey is the name the settings bag is stored under.
const DefaultKey = "krishi-settings"

const keyPrefix = "settings:"

// Store wraps a Badger database instance holding one settings bag per key.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
	key    []byte
	closed atomic.Bool
}

// Options configures New.
type Options struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM; used by tests and demos.
	InMemory bool
	// Key names the stored bag. Defaults to DefaultKey.
	Key string
}

// New opens the Badger database described by opts.
func New(opts Options, logger *slog.Logger) (*Store, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil            // Badger's own logging is too chatty
	bopts.SyncWrites = true       // a settings toggle must survive a crash
	bopts.CompactL0OnClose = true // faster next open

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	key := opts.Key
	if key == "" {
		key = DefaultKey
	}

	if logger != nil {
		logger.Info("Badger preference store opened", "path", opts.Path, "in_memory", opts.InMemory, "key", key)
	}

	return &Store{
		db:     db,
		logger: logger,
		key:    []byte(keyPrefix + key),
	}, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.logger != nil {
		s.logger.Info("Closing preference store")
	}
	return s.db.Close()
}

// Ping checks the database answers a read.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.usable(ctx); err != nil {
		return err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(s.key)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (s *Store) usable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed.Load() {
		return ErrClosed
	}
	return nil
}
