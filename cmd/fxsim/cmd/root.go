// Package cmd implements the fxsim command line.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fxsim",
	Short: "Multi-asset market replay and position sizing simulator",
	Long: `fxsim replays historical bars one at a time and sizes a unit
position on every bar through the session, news, correlation and
cross-market components. Decisions can be journaled to SQLite or CSV
for analysis.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits nonzero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
}
