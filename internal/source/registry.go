// Package source resolves provider keys to persisted source records.
package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

type RegistryOption func(*Registry)

func WithCatalog(c *Catalog) RegistryOption {
	return func(r *Registry) {
		r.catalog = c
	}
}

type Registry struct {
	store   storage.SourceStore
	catalog *Catalog
}

func NewRegistry(store storage.SourceStore, opts ...RegistryOption) *Registry {
	r := &Registry{store: store}
	for _, opt := range opts {
		opt(r)
	}
	if r.catalog == nil {
		r.catalog = DefaultCatalog()
	}
	return r
}

// Resolve returns the source for key, creating it on first use.
func (r *Registry) Resolve(ctx context.Context, key string) (*domain.Source, error) {
	src, err := r.store.GetOrCreateSource(ctx, r.catalog.Describe(key))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source %q: %w", key, err)
	}
	return src, nil
}

// Seed writes every catalog entry, refreshing display metadata of existing sources.
func (r *Registry) Seed(ctx context.Context) ([]domain.Source, error) {
	entries := r.catalog.Entries()
	seeded := make([]domain.Source, 0, len(entries))

	for _, e := range entries {
		src, err := r.store.UpsertSource(ctx, r.catalog.Describe(e.Key))
		if err != nil {
			return seeded, fmt.Errorf("failed to seed source %q: %w", e.Key, err)
		}
		slog.Info("Source seeded", "key", src.Key, "name", src.Name)
		seeded = append(seeded, *src)
	}

	return seeded, nil
}
