package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zynxdata/flowmerge/internal/config"
	"github.com/zynxdata/flowmerge/internal/consolidate"
	"github.com/zynxdata/flowmerge/internal/ingest"
	"github.com/zynxdata/flowmerge/internal/pipeline"
	"github.com/zynxdata/flowmerge/internal/store"
)

type runFlags struct {
	workflows string
	memories  string
	prompts   string
	outDir    string
	noStore   bool
}

func newRunCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the full clustering and consolidation pipeline",
		Long:  "Loads a workflow batch plus optional memory and prompt annotations, clusters the workflows, labels and consolidates each cluster, then writes the merged workflow documents and a result summary.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			result, err := executeRun(cmd.Context(), cfg, flags)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d workflows, %d clusters, %d consolidated (mean cohesion %.3f)\n",
				result.RunID, result.Stats.WorkflowCount, result.Stats.ClusterCount,
				result.Stats.ConsolidatedCount, result.Stats.MeanCohesion)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.workflows, "workflows", "w", "workflows.json", "Workflow batch file (JSON array)")
	cmd.Flags().StringVarP(&flags.memories, "memories", "m", "", "Memory annotation file (optional)")
	cmd.Flags().StringVarP(&flags.prompts, "prompts", "p", "", "Prompt annotation file (optional)")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", ".", "Directory for consolidated workflow files")
	cmd.Flags().BoolVar(&flags.noStore, "no-store", false, "Skip persisting the run to the database")

	return cmd
}

func executeRun(ctx context.Context, cfg *config.Config, flags *runFlags) (*pipeline.Result, error) {
	workflows, err := ingest.LoadWorkflows(flags.workflows)
	if err != nil {
		return nil, err
	}
	memories, err := ingest.LoadMemoryRecords(flags.memories)
	if err != nil {
		return nil, err
	}
	prompts, err := ingest.LoadPromptRecords(flags.prompts)
	if err != nil {
		return nil, err
	}

	result, err := pipeline.New(cfg.Pipeline()).Run(ctx, workflows, memories, prompts)
	if err != nil {
		return nil, err
	}

	if err := writeOutputs(result, flags.outDir); err != nil {
		return nil, err
	}

	if !flags.noStore {
		st, err := store.New(store.Config{Path: cfg.StorePath})
		if err != nil {
			return nil, err
		}
		defer st.Close()
		if err := st.SaveRun(ctx, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// writeOutputs mirrors each consolidated workflow to its own YAML file and
// drops a machine-readable result summary next to them.
func writeOutputs(result *pipeline.Result, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, cw := range result.Consolidated {
		data, err := consolidate.RenderYAML(cw)
		if err != nil {
			return fmt.Errorf("render %s: %w", cw.Name, err)
		}
		name := "consolidated_" + fileSlug(cw.Name) + ".yml"
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Info().Str("file", path).Str("cluster", cw.SourceClusterID).Msg("Wrote consolidated workflow")
	}

	summaryPath := filepath.Join(outDir, "run_result.json")
	if err := ingest.WriteJSON(summaryPath, result); err != nil {
		return fmt.Errorf("write run summary: %w", err)
	}
	return nil
}

func fileSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "_")
	slug = strings.ReplaceAll(slug, "-", "_")
	return slug
}
