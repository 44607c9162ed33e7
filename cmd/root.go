package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NREL/bamcensus/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "bamcensus",
	Short: "Census ACS and TIGER/Line data pipeline",
	Long: "Fetches American Community Survey attribute data for a batch of geographies,\n" +
		"optionally rolls it up to a coarser level, joins it with TIGER/Line geometries,\n" +
		"and writes the result as CSV.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
