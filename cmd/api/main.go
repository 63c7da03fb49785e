// Package main provides the entry point for the Attic server.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/atticapp/attic-server/internal/di"
	"github.com/atticapp/attic-server/internal/logger"
)

func main() {
	injector := di.NewContainer()

	if err := di.Bootstrap(injector); err != nil {
		log, logErr := do.Invoke[*logger.Logger](injector)
		if logErr != nil {
			// Config failed to load, so there is no logger yet.
			fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
			os.Exit(1)
		}
		log.WithError(err).Fatal("Failed to bootstrap server")
	}

	log := do.MustInvoke[*logger.Logger](injector)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// The container shuts the HTTP server down before the store it depends on.
	if err := di.Shutdown(injector); err != nil {
		log.WithError(err).Error("Shutdown error")
	}

	log.Info("Attic closed")
}
