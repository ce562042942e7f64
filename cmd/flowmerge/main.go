// Package main provides the flowmerge CLI entry point.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	configPath string
	debug      bool
)

func main() {
	root := &cobra.Command{
		Use:     "flowmerge",
		Short:   "Cluster and consolidate automation workflows",
		Long:    "flowmerge groups automation workflows by behavioral similarity, labels the groups, cross-references them with memory and prompt annotations, and merges each group into one consolidated workflow.",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "flowmerge.yaml", "Path to the configuration file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	root.AddCommand(newRunCmd())
	root.AddCommand(newClusterCmd())
	root.AddCommand(newMatchCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newRunsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
