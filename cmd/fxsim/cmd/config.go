package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quantfold/fxsim/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate a config file, or print the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			out, err := yaml.Marshal(config.Default())
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		}

		if _, err := config.LoadFromFile(cfgFile); err != nil {
			return err
		}
		fmt.Printf("%s: ok\n", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
