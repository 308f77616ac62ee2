package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantfold/fxsim/config"
	"github.com/quantfold/fxsim/engine"
	"github.com/quantfold/fxsim/pkg/logging"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a bar series and size a position every bar",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			return fmt.Errorf("--config is required")
		}
		cfg, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}

		log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		eng, err := engine.FromConfig(cfg, log)
		if err != nil {
			return err
		}
		defer eng.Close()

		if set := eng.Metrics(); set != nil {
			srv := set.StartServer(cfg.Metrics.Addr)
			defer srv.Close()
			log.Info("metrics listening", zap.String("addr", cfg.Metrics.Addr))
		}

		sum, err := eng.Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("episode %s: %d steps, %d blocked (%s .. %s)\n",
			sum.EpisodeID, sum.Steps, sum.Blocked,
			sum.Start.Format("2006-01-02 15:04"), sum.End.Format("2006-01-02 15:04"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
