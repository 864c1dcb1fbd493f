package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jstittsworth/mlb-dfs-projections/pkg/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "project",
	Short: "MLB DFS projection engine",
	Long: `Projects DraftKings fantasy points for every batter in a posted lineup and
every probable starting pitcher on an MLB slate.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.InitLogger(logLevel, true).SetOutput(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
