package providers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/krishiapp/krishi-settings/internal/api"
	"github.com/krishiapp/krishi-settings/internal/config"
	"github.com/krishiapp/krishi-settings/internal/logger"
	"github.com/krishiapp/krishi-settings/internal/ratelimit"
	"github.com/krishiapp/krishi-settings/internal/settings"
)

// RateLimiterHandle wraps the write limiter with shutdown capability.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-client write limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	limiter := ratelimit.PerInterval(cfg.Server.WriteRatePerMinute, time.Minute, cfg.Server.WriteBurst)
	return &RateLimiterHandle{KeyedRateLimiter: limiter}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	engineHandle := do.MustInvoke[*EngineHandle](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)
	theme := do.MustInvoke[*settings.ThemeTracker](i)

	handler := api.NewServer(engineHandle.Engine, storeHandle.Pinger(), api.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Limiter:     limiter.KeyedRateLimiter,
		Theme:       theme,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
