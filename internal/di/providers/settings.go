package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/krishiapp/krishi-settings/internal/config"
	"github.com/krishiapp/krishi-settings/internal/domain"
	"github.com/krishiapp/krishi-settings/internal/logger"
	"github.com/krishiapp/krishi-settings/internal/settings"
)

// ProvideThemeTracker provides the committed-theme tracker.
func ProvideThemeTracker(i do.Injector) (*settings.ThemeTracker, error) {
	log := do.MustInvoke[*logger.Logger](i)

	tracker := settings.NewThemeTracker(domain.DefaultUserSettings().Theme())
	tracker.OnChange(func(theme domain.Theme) {
		log.Info("Theme changed", "theme", theme)
	})
	return tracker, nil
}

// EngineHandle wraps the settings engine with shutdown capability.
type EngineHandle struct {
	*settings.Engine
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *EngineHandle) Shutdown() error {
	h.cancel()
	return h.Close()
}

// ProvideEngine builds the settings engine and loads the stored settings.
func ProvideEngine(i do.Injector) (*EngineHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	theme := do.MustInvoke[*settings.ThemeTracker](i)

	engine, err := settings.New(storeHandle, settings.Options{
		Facts: domain.ProfileFacts{
			Location: cfg.Profile.Location,
			Earnings: cfg.Profile.Earnings,
		},
		Emitter:      theme,
		StoreTimeout: cfg.Engine.StoreTimeout,
		SavedWindow:  cfg.Engine.SavedWindow,
		QueueSize:    cfg.Engine.QueueSize,
	}, log.Logger)
	if err != nil {
		return nil, err
	}

	bg, cancel := context.WithCancel(context.Background())

	ctx, cancelInit := context.WithTimeout(bg, initTimeout)
	defer cancelInit()

	if err := engine.Initialize(ctx); err != nil {
		// Serve anyway: reads report NOT_INITIALIZED until a retry succeeds.
		log.Warn("Settings not loaded at startup, retrying in background", "error", err)
		go retryInitialize(bg, engine, log)
	}

	return &EngineHandle{Engine: engine, cancel: cancel}, nil
}

// retryInitialize keeps calling Initialize with doubling delays until it
// succeeds or ctx is canceled.
func retryInitialize(ctx context.Context, engine *settings.Engine, log *logger.Logger) {
	delay := time.Second
	for attempt := 2; ; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		initCtx, cancel := context.WithTimeout(ctx, initTimeout)
		err := engine.Initialize(initCtx)
		cancel()
		if err == nil {
			log.Info("Settings loaded after retry", "attempt", attempt)
			return
		}

		log.Warn("Settings load retry failed", "attempt", attempt, "error", err)
		delay = min(delay*2, 30*time.Second)
	}
}
