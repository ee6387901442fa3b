package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/feed-harvester/pkg/config"
	"github.com/user/feed-harvester/pkg/logger"
)

var (
	envFile *string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "harvester",
	Short: "harvester collects group feed posts and comments and exports API route collections.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadFile(*envFile)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		logger.Init(os.Stderr, logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	envFile = rootCmd.PersistentFlags().String("env", ".env", "Env file with configuration overrides.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
