package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zynxdata/flowmerge/internal/config"
	"github.com/zynxdata/flowmerge/internal/store"
)

func newRunsCmd() *cobra.Command {
	var (
		limit  int
		detail string
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted pipeline runs",
		Long:  "Prints recent runs from the database, newest first. With --show, prints the clusters and consolidated workflows of one run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			st, err := store.New(store.Config{Path: cfg.StorePath})
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if detail != "" {
				clusters, err := st.ClustersForRun(ctx, detail)
				if err != nil {
					return err
				}
				for _, c := range clusters {
					fmt.Fprintf(out, "%s  %-24s cohesion=%.3f  members=%d\n",
						c.ClusterID, c.Label, c.Cohesion, c.MemberCount)
				}
				consolidated, err := st.ConsolidatedForRun(ctx, detail)
				if err != nil {
					return err
				}
				for _, cw := range consolidated {
					fmt.Fprintf(out, "---\n# %s (%s)\n%s", cw.Name, cw.ClusterID, cw.Document)
				}
				return nil
			}

			runs, err := st.RecentRuns(ctx, limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Fprintf(out, "%s  %s  %-8s workflows=%d clusters=%d consolidated=%d cohesion=%.3f\n",
					r.RunID, r.CreatedAt, r.Strategy, r.WorkflowCount, r.ClusterCount,
					r.ConsolidatedCount, r.MeanCohesion)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum runs to list")
	cmd.Flags().StringVar(&detail, "show", "", "Print the clusters and documents of this run ID")

	return cmd
}
