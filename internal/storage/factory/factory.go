package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/es"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/pg"
	redisstore "github.com/DjordjeVuckovic/news-aggregator/internal/storage/redis"
	pkgserver "github.com/DjordjeVuckovic/news-aggregator/pkg/server"
)

// Backend is the set of stores selected by a StorageConfig.
type Backend struct {
	Store       storage.Store
	Preferences storage.PreferenceStore

	checks  pkgserver.Checks
	closers []func()
}

// Healthy reports whether every underlying backend is reachable.
func (b *Backend) Healthy(ctx context.Context) bool {
	return b.checks.Healthy(ctx)
}

func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// New opens the configured article and preference stores.
func New(ctx context.Context, cfg StorageConfig) (*Backend, error) {
	b := &Backend{}

	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		store := pg.NewStore(pool)
		b.Store = store
		b.checks = append(b.checks, pg.NewHealthChecker(pool))
		b.closers = append(b.closers, pool.Close)
		if cfg.Preferences == storage.PG {
			b.Preferences = store
		}

	case storage.ES:
		store, err := es.NewStore(*cfg.Es)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndices(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare elasticsearch indices: %w", err)
		}
		b.Store = store
		b.checks = append(b.checks, store)

	case storage.InMem:
		store := in_mem.NewStore()
		b.Store = store
		b.checks = append(b.checks, store)
		if cfg.Preferences == storage.InMem {
			b.Preferences = store
		}

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}

	if b.Preferences == nil {
		if err := b.openPreferences(cfg); err != nil {
			b.Close()
			return nil, err
		}
	}

	slog.Info("Storage initialized", "articles", cfg.Type, "preferences", cfg.Preferences)
	return b, nil
}

func (b *Backend) openPreferences(cfg StorageConfig) error {
	switch cfg.Preferences {
	case storage.Redis:
		if cfg.Redis == nil {
			return fmt.Errorf("redis preference store is not configured")
		}
		rdb := redisstore.NewClient(*cfg.Redis)
		store := redisstore.NewPreferenceStore(rdb)
		b.Preferences = store
		b.checks = append(b.checks, store)
		b.closers = append(b.closers, func() {
			if err := rdb.Close(); err != nil {
				slog.Warn("Failed to close redis client", "error", err)
			}
		})
		return nil

	case storage.InMem:
		b.Preferences = in_mem.NewStore()
		return nil

	default:
		return fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Preferences)
	}
}
