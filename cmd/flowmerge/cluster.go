package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zynxdata/flowmerge/internal/classify"
	"github.com/zynxdata/flowmerge/internal/cluster"
	"github.com/zynxdata/flowmerge/internal/config"
	"github.com/zynxdata/flowmerge/internal/ingest"
)

func newClusterCmd() *cobra.Command {
	var (
		workflowsPath string
		strategy      string
		k             int
		similarTo     string
		topN          int
	)

	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster a workflow batch without consolidating",
		Long:  "Groups a workflow batch by behavioral similarity and prints each labeled group. With --similar-to, prints the nearest neighbors of one workflow instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if strategy != "" {
				cfg.Strategy = strategy
			}
			if k > 0 {
				cfg.Clusters = k
			}

			workflows, err := ingest.LoadWorkflows(workflowsPath)
			if err != nil {
				return err
			}

			engine := cluster.NewEngine(cfg.Pipeline().Cluster)
			out := cmd.OutOrStdout()

			if similarTo != "" {
				space := engine.Space(workflows)
				neighbors := space.FindSimilar(similarTo, topN)
				if neighbors == nil {
					return fmt.Errorf("workflow %q not found in batch", similarTo)
				}
				for _, n := range neighbors {
					fmt.Fprintf(out, "%.3f  %s  %s\n", n.Score, n.Workflow.ID, n.Workflow.Name)
				}
				return nil
			}

			clusters, err := engine.Cluster(cmd.Context(), workflows)
			if err != nil {
				return err
			}
			for _, c := range clusters {
				c.Label = classify.Cluster(c)
				names := make([]string, 0, len(c.Members))
				for _, m := range c.Members {
					names = append(names, m.Name)
				}
				fmt.Fprintf(out, "%s  %-24s cohesion=%.3f  [%s]\n",
					c.ID, c.Label, c.Cohesion, strings.Join(names, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workflowsPath, "workflows", "w", "workflows.json", "Workflow batch file (JSON array)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Clustering strategy (kmeans or dbscan), overrides config")
	cmd.Flags().IntVarP(&k, "clusters", "k", 0, "Cluster count for kmeans, overrides config")
	cmd.Flags().StringVar(&similarTo, "similar-to", "", "Print the nearest neighbors of this workflow ID instead of clustering")
	cmd.Flags().IntVarP(&topN, "top", "n", 5, "Neighbor count for --similar-to")

	return cmd
}
