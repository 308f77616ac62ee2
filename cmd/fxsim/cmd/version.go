package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the fxsim version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("fxsim", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
