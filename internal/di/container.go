// Package di provides dependency injection configuration for the settings server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/krishiapp/krishi-settings/internal/config"
	"github.com/krishiapp/krishi-settings/internal/di/providers"
	"github.com/krishiapp/krishi-settings/internal/logger"
	"github.com/krishiapp/krishi-settings/internal/settings"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogFile)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)

	// Settings engine
	do.Provide(injector, providers.ProvideThemeTracker)
	do.Provide(injector, providers.ProvideEngine)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*settings.ThemeTracker](injector)
	if _, err := do.Invoke[*providers.EngineHandle](injector); err != nil {
		return err
	}

	// Server
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
