package main

import (
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configPath string
	verbose    bool
	logJSON    bool
	metricsOut string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "ranker",
		Short: "Hybrid candidate ranking engine",
		Long: `Ranker scores candidates against a job query by combining BM25 keyword retrieval,
embedding similarity and a skill co-occurrence graph, and explains every decision.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to YAML or JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print detailed output and debug logs")
	rootCmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().StringVar(&opts.metricsOut, "metrics-out", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(
		newRankCmd(opts),
		newRebuildGraphCmd(opts),
		newRelatedSkillsCmd(opts),
		newValidateCmd(),
	)

	return rootCmd
}

func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}
