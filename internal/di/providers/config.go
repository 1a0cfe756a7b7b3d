// Package providers contains dependency injection providers for the settings server.
package providers

import (
	"os"

	"github.com/samber/do/v2"

	"github.com/krishiapp/krishi-settings/internal/config"
	"github.com/krishiapp/krishi-settings/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// LogFileHandle owns the optional JSON log file.
type LogFileHandle struct {
	*os.File
}

// Shutdown implements do.Shutdownable.
func (h *LogFileHandle) Shutdown() error {
	if h.File == nil {
		return nil
	}
	return h.Close()
}

// ProvideLogFile opens LOG_FILE when configured.
func ProvideLogFile(i do.Injector) (*LogFileHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	if cfg.Logger.File == "" {
		return &LogFileHandle{}, nil
	}

	f, err := logger.OpenFile(cfg.Logger.File)
	if err != nil {
		return nil, err
	}
	return &LogFileHandle{File: f}, nil
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logFile := do.MustInvoke[*LogFileHandle](i)

	lcfg := logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	}
	if logFile.File != nil {
		lcfg.FileWriter = logFile.File
	}
	log := logger.New(lcfg)

	log.Info("Starting Krishi settings server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"log_file", cfg.Logger.File,
		"store_driver", cfg.Store.Driver,
	)

	return log, nil
}
