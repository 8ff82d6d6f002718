package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"asset-tracking-api/internal/config"
	"asset-tracking-api/internal/logger"
	"asset-tracking-api/internal/store"
)

// app holds what every subcommand needs once the root has connected
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Store
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "assetctl",
		Short: "Asset Tracking admin tool",
		Long: "Asset Tracking admin tool\n\n" +
			"Runs migrations and moves assets in and out of .xlsx workbooks.\n" +
			"Reads the same environment configuration as the API server.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect(cmd.Context())
		},
	}

	root.AddCommand(newMigrateCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newExportCmd(a))

	return root
}

func (a *app) connect(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadAndValidate()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	dialect, err := store.DialectFor(cfg.DBDriver)
	if err != nil {
		return err
	}
	db, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log.With("component", "assetctl")
	a.store = store.New(db, dialect)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("close database", "error", err)
		}
		a.store = nil
	}
	if a.log != nil {
		a.log.Sync()
	}
}
