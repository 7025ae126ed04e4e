// Package app wires the stores, providers and aggregation pipeline shared
// by the API server and the fetch CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/news-aggregator/internal/aggregator"
	"github.com/DjordjeVuckovic/news-aggregator/internal/article"
	"github.com/DjordjeVuckovic/news-aggregator/internal/config"
	"github.com/DjordjeVuckovic/news-aggregator/internal/events"
	"github.com/DjordjeVuckovic/news-aggregator/internal/preference"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider/registry"
	"github.com/DjordjeVuckovic/news-aggregator/internal/source"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/factory"
)

type App struct {
	Backend     *factory.Backend
	Sources     *source.Registry
	Aggregator  *aggregator.Aggregator
	Articles    *article.Service
	Preferences *preference.Service

	publisher events.Publisher
}

func New(ctx context.Context, cfg *config.Config, storageCfg factory.StorageConfig) (*App, error) {
	backend, err := factory.New(ctx, storageCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	publisher, err := newPublisher(cfg)
	if err != nil {
		backend.Close()
		return nil, err
	}

	sources := source.NewRegistry(backend.Store)
	fetchers := registry.Build(cfg.Providers)

	agg := aggregator.New(fetchers, sources, backend.Store,
		aggregator.WithPublisher(publisher),
		aggregator.WithConcurrency(cfg.Fetch.Concurrency),
		aggregator.WithStoreTimeout(cfg.Fetch.StoreTimeout),
	)

	return &App{
		Backend:     backend,
		Sources:     sources,
		Aggregator:  agg,
		Articles:    article.NewService(backend.Store, backend.Store, agg),
		Preferences: preference.NewService(backend.Preferences),
		publisher:   publisher,
	}, nil
}

func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.Kafka == nil {
		slog.Info("Kafka is not configured, article events are not published")
		return events.Noop{}, nil
	}
	p, err := events.NewKafkaPublisher(*cfg.Kafka)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	return p, nil
}

func (a *App) Close() {
	if err := a.publisher.Close(); err != nil {
		slog.Warn("Failed to close event publisher", "error", err)
	}
	a.Backend.Close()
}
