// Package aggregator drives the provider fetchers and persists their articles.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/events"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

const defaultStoreTimeout = 10 * time.Second

// SourceResolver returns the persisted source for a provider key, creating it on first use.
type SourceResolver interface {
	Resolve(ctx context.Context, key string) (*domain.Source, error)
}

type Option func(*Aggregator)

// WithPublisher emits an event for every stored article.
func WithPublisher(p events.Publisher) Option {
	return func(a *Aggregator) {
		a.publisher = p
	}
}

// WithConcurrency bounds the number of providers processed at once.
// Zero or less means one worker per provider.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		a.concurrency = n
	}
}

// WithStoreTimeout bounds each storage write.
func WithStoreTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		a.storeTimeout = d
	}
}

type Aggregator struct {
	fetchers     map[string]provider.Fetcher
	keys         []string
	sources      SourceResolver
	store        storage.ArticleStore
	publisher    events.Publisher
	concurrency  int
	storeTimeout time.Duration
}

func New(fetchers map[string]provider.Fetcher, sources SourceResolver, store storage.ArticleStore, opts ...Option) *Aggregator {
	a := &Aggregator{
		fetchers:     make(map[string]provider.Fetcher, len(fetchers)),
		sources:      sources,
		store:        store,
		publisher:    events.Noop{},
		storeTimeout: defaultStoreTimeout,
	}
	for key, f := range fetchers {
		a.fetchers[key] = f
		a.keys = append(a.keys, key)
	}
	sort.Strings(a.keys)

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Keys returns the keys of the active providers.
func (a *Aggregator) Keys() []string {
	return append([]string(nil), a.keys...)
}

// RunAll fetches from every active provider.
func (a *Aggregator) RunAll(ctx context.Context, params domain.FetchParams) domain.FetchStatistics {
	return a.run(ctx, a.keys, params)
}

// RunSelected fetches from the given providers only. Unknown keys are skipped
// and duplicates run once.
func (a *Aggregator) RunSelected(ctx context.Context, keys []string, params domain.FetchParams) domain.FetchStatistics {
	seen := make(map[string]struct{}, len(keys))
	selected := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := a.fetchers[key]; !ok {
			slog.Debug("Skipping unknown source", "source", key)
			continue
		}
		selected = append(selected, key)
	}
	return a.run(ctx, selected, params)
}

func (a *Aggregator) run(ctx context.Context, keys []string, params domain.FetchParams) domain.FetchStatistics {
	stats := domain.NewFetchStatistics()
	if len(keys) == 0 {
		return stats
	}

	start := time.Now()
	results := make([]domain.SourceStats, len(keys))

	limit := a.concurrency
	if limit <= 0 || limit > len(keys) {
		limit = len(keys)
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, key := range keys {
		g.Go(func() error {
			results[i] = a.runIsolated(ctx, a.fetchers[key], params)
			return nil
		})
	}
	_ = g.Wait()

	for i, key := range keys {
		stats.Add(key, results[i])
	}

	slog.Info("Aggregation finished",
		"sources", len(keys),
		"total_fetched", stats.TotalFetched,
		"total_stored", stats.TotalStored,
		"failed", stats.Failed(),
		"duration", time.Since(start),
	)

	return stats
}

// runIsolated turns any error or panic of a single source into its statistics entry.
func (a *Aggregator) runIsolated(ctx context.Context, f provider.Fetcher, params domain.FetchParams) (st domain.SourceStats) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Source pipeline panicked", "source", f.SourceKey(), "panic", r, "stack", string(debug.Stack()))
			st = domain.SourceStats{Error: fmt.Sprintf("panic: %v", r)}
		}
	}()

	st, err := a.RunOne(ctx, f, params)
	if err != nil {
		slog.Error("Source run failed", "source", f.SourceKey(), "error", err)
		st.Error = err.Error()
	}
	return st
}

// RunOne fetches from a single provider and upserts every usable record.
// Per-record failures are logged and skipped. The returned error reports a
// failure of the source as a whole.
func (a *Aggregator) RunOne(ctx context.Context, f provider.Fetcher, params domain.FetchParams) (domain.SourceStats, error) {
	key := f.SourceKey()

	src, err := a.sources.Resolve(ctx, key)
	if err != nil {
		return domain.SourceStats{}, err
	}

	res := f.FetchArticles(ctx, params)
	if res.Err != nil {
		return domain.SourceStats{}, fmt.Errorf("fetch failed: %w", res.Err)
	}

	st := domain.SourceStats{Fetched: len(res.Articles)}
	// issued writes are not cut short by caller cancellation
	writeCtx := context.WithoutCancel(ctx)

	for i, raw := range res.Articles {
		if err := ctx.Err(); err != nil {
			slog.Warn("Source run cancelled", "source", key, "stored", st.Stored, "remaining", len(res.Articles)-i)
			return st, fmt.Errorf("run cancelled: %w", err)
		}

		normalized, err := f.TransformArticle(raw)
		if err != nil {
			slog.Warn("Failed to transform article", "source", key, "index", i, "error", err)
			continue
		}
		if !normalized.Storable() {
			slog.Debug("Skipping article without url or title", "source", key, "index", i)
			continue
		}

		article, err := a.upsert(writeCtx, domain.ArticleUpsert{SourceID: src.ID, NormalizedArticle: normalized})
		if err != nil {
			slog.Error("Failed to store article", "source", key, "url", normalized.URL, "error", err)
			continue
		}
		st.Stored++

		a.publish(writeCtx, key, *article)
	}

	slog.Info("Source run finished", "source", key, "fetched", st.Fetched, "stored", st.Stored)

	return st, nil
}

func (a *Aggregator) upsert(ctx context.Context, in domain.ArticleUpsert) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, a.storeTimeout)
	defer cancel()
	return a.store.UpsertArticleByURL(ctx, in)
}

func (a *Aggregator) publish(ctx context.Context, key string, article domain.Article) {
	ctx, cancel := context.WithTimeout(ctx, a.storeTimeout)
	defer cancel()
	if err := a.publisher.PublishArticleStored(ctx, events.NewArticleStored(key, article)); err != nil {
		slog.Warn("Failed to publish article event", "source", key, "url", article.URL, "error", err)
	}
}
