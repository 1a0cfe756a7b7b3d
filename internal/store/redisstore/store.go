// Package redisstore provides a Redis-backed PreferenceStore.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/krishiapp/krishi-settings/internal/domain"
	"github.com/krishiapp/krishi-settings/internal/store"
)

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// Store keeps the settings bag as one JSON string value.
type Store struct {
	client *redis.Client
	key    string
}

// New connects to Redis and verifies it answers.
func New(cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewFromClient(client, cfg.Key), nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *redis.Client, key string) *Store {
	if key == "" {
		key = store.DefaultKey
	}
	return &Store{client: client, key: "settings:" + key}
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping checks Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Load returns the stored bag, or ok=false if the key is missing.
func (s *Store) Load(ctx context.Context) (domain.UserSettings, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.UserSettings{}, false, nil
	}
	if err != nil {
		return domain.UserSettings{}, false, err
	}

	rec, err := store.Decode(data)
	if err != nil {
		return domain.UserSettings{}, false, err
	}
	return rec.Settings, true, nil
}

// Save replaces the stored value with a single SET.
func (s *Store) Save(ctx context.Context, settings domain.UserSettings) error {
	data, err := store.Encode(settings)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}
