package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/news-aggregator/internal/config"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/config/env"
)

type AppConfig struct {
	ENV        string
	ConfigFile string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV:        os.Getenv("ENV"),
		ConfigFile: os.Getenv("CONFIG_FILE"),
	}
}

type NewsAPIConfig struct {
	Settings      *config.Config
	StorageConfig factory.StorageConfig
}

func (as *AppConfig) Load() (*NewsAPIConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/news_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	settings, err := config.Load(as.ConfigFile)
	if err != nil {
		slog.Error("Failed to load settings", "error", err)
		return nil, err
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	return &NewsAPIConfig{
		Settings:      settings,
		StorageConfig: *storageCfg,
	}, nil
}
