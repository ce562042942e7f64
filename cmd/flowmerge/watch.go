package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zynxdata/flowmerge/internal/config"
	"github.com/zynxdata/flowmerge/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the pipeline whenever the workflow batch changes",
		Long:  "Watches the workflow batch file and executes a full pipeline run on every change, until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runOnce := func() {
				result, err := executeRun(ctx, cfg, flags)
				if err != nil {
					log.Error().Err(err).Msg("Pipeline run failed")
					return
				}
				log.Info().
					Str("run_id", result.RunID).
					Int("clusters", result.Stats.ClusterCount).
					Int("consolidated", result.Stats.ConsolidatedCount).
					Msg("Batch reprocessed")
			}

			w, err := watcher.New(flags.workflows, runOnce)
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()

			// Process the batch as it stands before waiting for changes.
			runOnce()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-sig:
			case <-ctx.Done():
			}
			log.Info().Msg("Shutting down watcher")
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.workflows, "workflows", "w", "workflows.json", "Workflow batch file to watch")
	cmd.Flags().StringVarP(&flags.memories, "memories", "m", "", "Memory annotation file (optional)")
	cmd.Flags().StringVarP(&flags.prompts, "prompts", "p", "", "Prompt annotation file (optional)")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", ".", "Directory for consolidated workflow files")
	cmd.Flags().BoolVar(&flags.noStore, "no-store", false, "Skip persisting runs to the database")

	return cmd
}
