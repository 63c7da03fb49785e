package providers

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/atticapp/attic-server/internal/config"
	"github.com/atticapp/attic-server/internal/logger"
	"github.com/atticapp/attic-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the SQLite database under the data directory,
// creating the directory and applying migrations as needed.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Data.BasePath, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := cfg.Data.DatabasePath()
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	version, dirty, err := db.SchemaVersion()
	if err != nil {
		log.WithError(err).Warn("Could not read schema version")
	}
	log.Info("Database initialized", "path", dbPath, "schema_version", version, "dirty", dirty)

	return &StoreHandle{Store: db}, nil
}
