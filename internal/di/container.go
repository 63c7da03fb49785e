// Package di provides dependency injection configuration for the attic server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/atticapp/attic-server/internal/api"
	"github.com/atticapp/attic-server/internal/config"
	"github.com/atticapp/attic-server/internal/di/providers"
	"github.com/atticapp/attic-server/internal/logger"
)

// NewContainer creates the server container. Configuration is loaded from
// flags, environment and .env on first use.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	provideCore(injector)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// NewCoreContainer creates a container over an already loaded config and
// logger, without the HTTP server. The operator CLI uses it.
func NewCoreContainer(cfg *config.Config, log *logger.Logger) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, log)

	provideCore(injector)

	return injector
}

func provideCore(injector do.Injector) {
	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Business services
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideEssayService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideQuoteService)
	do.Provide(injector, providers.ProvideNoteService)
	do.Provide(injector, providers.ProvideContentResolver)
	do.Provide(injector, providers.ProvideCollectionService)
	do.Provide(injector, providers.ProvideStatsService)
	do.Provide(injector, providers.ProvideTodoService)
	do.Provide(injector, providers.ProvideServices)
}

// Bootstrap initializes all services and starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*api.Services](injector)

	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}

// Services resolves the service bundle, opening the store if needed.
func Services(injector do.Injector) (*api.Services, error) {
	return do.Invoke[*api.Services](injector)
}

// Store resolves the store handle.
func Store(injector do.Injector) (*providers.StoreHandle, error) {
	return do.Invoke[*providers.StoreHandle](injector)
}

// Shutdown stops every service in reverse dependency order. do always
// returns a report, so only a failed one becomes an error.
func Shutdown(injector *do.RootScope) error {
	if report := injector.Shutdown(); report != nil && !report.Succeed {
		return report
	}
	return nil
}
