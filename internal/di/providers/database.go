package providers

import (
	"io"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/krishiapp/krishi-settings/internal/config"
	"github.com/krishiapp/krishi-settings/internal/logger"
	"github.com/krishiapp/krishi-settings/internal/store"
	"github.com/krishiapp/krishi-settings/internal/store/redisstore"
	"github.com/krishiapp/krishi-settings/internal/store/sqlite"
)

// StoreHandle wraps the configured preference store with shutdown capability.
type StoreHandle struct {
	store.PreferenceStore
	closer io.Closer
}

// Pinger returns the store's health check, or nil when it has none.
func (h *StoreHandle) Pinger() store.Pinger {
	if p, ok := h.PreferenceStore.(store.Pinger); ok {
		return p
	}
	return nil
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	if h.closer == nil {
		return nil
	}
	return h.closer.Close()
}

// ProvideStore opens the preference store selected by STORE_DRIVER.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	ps, closer, err := openStore(cfg.Store, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Preference store ready",
		"driver", cfg.Store.Driver,
		"path", cfg.Store.Path,
		"key", cfg.Store.Key,
		"load_latency", cfg.Engine.LoadLatency,
		"save_latency", cfg.Engine.SaveLatency,
	)

	return &StoreHandle{
		PreferenceStore: store.WithLatency(ps, cfg.Engine.LoadLatency, cfg.Engine.SaveLatency),
		closer:          closer,
	}, nil
}

type closableStore interface {
	store.PreferenceStore
	io.Closer
}

func openStore(cfg config.StoreConfig, logger *slog.Logger) (store.PreferenceStore, io.Closer, error) {
	var (
		s   closableStore
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		s, err = sqlite.Open(cfg.Path, cfg.Key, logger)
	case config.DriverRedis:
		s, err = redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.Key,
		})
	case config.DriverMemory:
		s, err = store.New(store.Options{InMemory: true, Key: cfg.Key}, logger)
	default:
		s, err = store.New(store.Options{Path: cfg.Path, Key: cfg.Key}, logger)
	}
	if err != nil {
		return nil, nil, err
	}
	return s, s, nil
}
