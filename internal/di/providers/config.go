// Package providers contains dependency injection providers for the attic server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/atticapp/attic-server/internal/config"
	"github.com/atticapp/attic-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(_ do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.WithFields(map[string]any{
		"environment": cfg.App.Environment,
		"log_level":   cfg.Logger.Level,
		"data_path":   cfg.Data.BasePath,
	}).Info("Starting Attic server")

	return log, nil
}
