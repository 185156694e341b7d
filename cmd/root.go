package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chambersfam/locator-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "locator-cli",
	Short: "Meetinghouse locator dataset tools",
	Long:  "Scrapes building and unit records from the meetinghouse locator map API, stores JSON snapshots, tracks daily unit changes, and computes statistics over the stored data.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
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
