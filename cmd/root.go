package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mineworks/paperminer/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "paperminer",
	Short: "Document analysis and planetary dashboard services",
	Long:  "Analyzes papers, documents, and web pages with Claude, exports PDF summaries, and serves Earth/Mars environmental dashboards.",
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
