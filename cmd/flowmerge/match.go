package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zynxdata/flowmerge/internal/config"
	"github.com/zynxdata/flowmerge/internal/ingest"
	"github.com/zynxdata/flowmerge/internal/match"
)

func newMatchCmd() *cobra.Command {
	var (
		workflowsPath string
		memoriesPath  string
		promptsPath   string
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Cross-reference workflows with memory and prompt annotations",
		Long:  "Scores every workflow against the annotation records and prints the ranked candidates per workflow, without clustering.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			workflows, err := ingest.LoadWorkflows(workflowsPath)
			if err != nil {
				return err
			}
			memories, err := ingest.LoadMemoryRecords(memoriesPath)
			if err != nil {
				return err
			}
			prompts, err := ingest.LoadPromptRecords(promptsPath)
			if err != nil {
				return err
			}

			matcher := match.New(cfg.Pipeline().Match)
			out := cmd.OutOrStdout()
			for _, w := range workflows {
				fmt.Fprintf(out, "%s (%s)\n", w.Name, w.ID)
				for _, m := range matcher.MatchMemories(w, memories) {
					fmt.Fprintf(out, "  memory  %.1f  %s  tag=%s\n", m.Score, m.Memory.MemoryID, m.Memory.Tag)
				}
				for _, m := range matcher.MatchPrompts(w, prompts) {
					fmt.Fprintf(out, "  prompt  %.1f  %s  task=%s\n", m.Score, m.Prompt.PromptID, m.Prompt.TaskType)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workflowsPath, "workflows", "w", "workflows.json", "Workflow batch file (JSON array)")
	cmd.Flags().StringVarP(&memoriesPath, "memories", "m", "", "Memory annotation file (optional)")
	cmd.Flags().StringVarP(&promptsPath, "prompts", "p", "", "Prompt annotation file (optional)")

	return cmd
}
