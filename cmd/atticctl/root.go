package main

import (
	"os"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/atticapp/attic-server/internal/api"
	"github.com/atticapp/attic-server/internal/di"
	"github.com/atticapp/attic-server/internal/di/providers"
	"github.com/atticapp/attic-server/internal/logger"
)

// app holds what a command needs once PersistentPreRunE has run.
type app struct {
	configFile string
	injector   *do.RootScope
}

func (a *app) services() (*api.Services, error) {
	return di.Services(a.injector)
}

func (a *app) store() (*providers.StoreHandle, error) {
	return di.Store(a.injector)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "atticctl",
		Short: "Operate an attic database",
		Long: `atticctl runs maintenance tasks against the attic database: applying
migrations, seeding a sample library, printing reading stats and
curating tags. It uses the same services as the HTTP server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags(), a.configFile)
			if err != nil {
				return err
			}
			log := logger.New(logger.Config{
				Writer:      os.Stderr,
				Level:       logger.ParseLevel(cfg.Logger.Level),
				Environment: cfg.App.Environment,
			})
			a.injector = di.NewCoreContainer(cfg, log)
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if a.injector == nil {
				return nil
			}
			return di.Shutdown(a.injector)
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: ./atticctl.yaml or ~/.config/attic/atticctl.yaml)")
	root.PersistentFlags().String("data-path", "", "directory holding attic.db (default: ~/Attic/data)")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newStatsCmd(a),
		newTagsCmd(a),
	)
	return root
}
