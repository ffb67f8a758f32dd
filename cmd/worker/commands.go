package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/project-sync/internal/bootstrap"
	cronjob "github.com/GoSim-25-26J-441/project-sync/internal/projects/cron"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/service"
)

var (
	exportOut   string
	snapshotDir string
	schedule    string
)

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write the snapshot to this file instead of stdout")
	snapshotsCmd.Flags().StringVar(&snapshotDir, "dir", "", "snapshot directory (defaults to SNAPSHOT_DIR)")
	snapshotsCmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule (defaults to SNAPSHOT_SCHEDULE)")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the merged project collection as a JSON snapshot",
	Long: `Export the merged project collection. When the remote store is
unreachable the snapshot holds the local cache and its status is "degraded".

Examples:
  worker export > projects.json
  worker export --out /backups/projects.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(app *bootstrap.App) error {
			snap, err := app.Service.ExportSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			if exportOut != "" {
				if err := service.WriteSnapshotFile(exportOut, snap); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d records to %s (%s)\n", len(snap.Records), exportOut, snap.Status)
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a JSON snapshot through the normal create path",
	Long: `Import a snapshot file. Each record keeps its temporary and structured
ids, so importing the same file twice does not create duplicates. Records that
fail validation are reported and skipped.

Examples:
  worker import projects.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := service.ReadSnapshotFile(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(app *bootstrap.App) error {
			rep := app.Service.ImportSnapshot(cmd.Context(), snap.Records)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d (synced %d, local only %d), failed %d\n",
				rep.Imported, rep.Synced, rep.LocalOnly, len(rep.Failed))
			for _, f := range rep.Failed {
				fmt.Fprintf(out, "  #%d %s: %s\n", f.Index, f.Key, f.Error)
			}
			if len(rep.Failed) > 0 {
				return fmt.Errorf("%d records failed to import", len(rep.Failed))
			}
			return nil
		})
	},
}

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Empty the cached project collection (remote store untouched)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(app *bootstrap.App) error {
			return app.Service.ClearCache(cmd.Context())
		})
	},
}

var clearAllCmd = &cobra.Command{
	Use:   "clear-all",
	Short: "Empty every cached collection (remote store untouched)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(app *bootstrap.App) error {
			return app.Service.ClearAll(cmd.Context())
		})
	},
}

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Run the periodic snapshot exporter until interrupted",
	Long: `Write a snapshot to the snapshot directory on a cron schedule.

Examples:
  worker snapshots --dir /backups --schedule "@every 30m"
  worker snapshots --schedule "0 2 * * *"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withApp(ctx, func(app *bootstrap.App) error {
			dir, spec := snapshotDir, schedule
			if dir == "" {
				dir = app.Config.Snapshot.Dir
			}
			if spec == "" {
				spec = app.Config.Snapshot.Schedule
			}
			if dir == "" {
				return fmt.Errorf("snapshot directory required: set --dir or SNAPSHOT_DIR")
			}

			sched := cronjob.NewScheduler(app.Service, dir, app.Log)
			if err := sched.Start(spec); err != nil {
				return err
			}
			<-ctx.Done()
			<-sched.Stop().Done()
			return nil
		})
	},
}
