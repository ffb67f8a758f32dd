// Package main implements the project-sync worker CLI for snapshot and cache maintenance.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-sync/config"
	"github.com/GoSim-25-26J-441/project-sync/internal/bootstrap"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "worker",
	Short: "Maintenance tasks for the project sync service",
	Long: `worker runs offline maintenance against the project cache and the remote store:
exporting and importing snapshots, clearing the local cache, and running the
periodic snapshot scheduler. It reads the same environment as the API server.`,
	Version:       version,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd, clearCacheCmd, clearAllCmd, snapshotsCmd)
}

// withApp loads config, wires the service and closes it after fn returns.
func withApp(ctx context.Context, fn func(app *bootstrap.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, err := bootstrap.NewLogger(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	app, err := bootstrap.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			logger.Warn("close stores", zap.Error(cerr))
		}
	}()

	return fn(app)
}
