package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/news-aggregator/internal/app"
	"github.com/DjordjeVuckovic/news-aggregator/internal/config"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/config/env"
)

var (
	cfgFile  string
	envFile  string
	settings *config.Config
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "news_fetch",
	Short:         "Fetch articles from the configured news providers",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := env.LoadDotEnv(os.Getenv("ENV"), envFile); err != nil {
			slog.Debug("Continuing without .env file", "error", err)
		}

		var err error
		settings, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		config.SetupLogger(settings.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, env variables take precedence)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "cmd/news_fetch/.env", ".env file to load")

	rootCmd.AddCommand(fetchCmd, seedCmd, checkConfigCmd)
}

// openApp opens storage and builds the pipeline from the loaded settings.
func openApp(ctx context.Context) (*app.App, error) {
	storageCfg, err := factory.LoadEnv()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, settings, *storageCfg)
}
