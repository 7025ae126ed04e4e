// Package article serves read queries over stored articles, fetching from
// the providers when a search finds nothing stored yet.
package article

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

// Aggregator is the part of the aggregation pipeline the query path triggers.
type Aggregator interface {
	RunAll(ctx context.Context, params domain.FetchParams) domain.FetchStatistics
	RunSelected(ctx context.Context, keys []string, params domain.FetchParams) domain.FetchStatistics
}

// QueryResult is a page of articles. AutoFetch reports whether the providers
// were queried to fill an empty search.
type QueryResult struct {
	Page      domain.ArticlePage
	AutoFetch bool
	Stats     *domain.FetchStatistics
}

type Service struct {
	reader     storage.ArticleReader
	sources    storage.SourceStore
	aggregator Aggregator
}

func NewService(reader storage.ArticleReader, sources storage.SourceStore, aggregator Aggregator) *Service {
	return &Service{
		reader:     reader,
		sources:    sources,
		aggregator: aggregator,
	}
}

// QueryWithAutoFetch runs the filter against storage. When a search term
// matches nothing, it runs one aggregation with the filter's search term,
// date range and source restriction and repeats the identical query.
// Failures after the first query degrade to the empty first result.
func (s *Service) QueryWithAutoFetch(ctx context.Context, filter domain.ArticleFilter) (QueryResult, error) {
	filter.Normalize()

	page, err := s.reader.QueryArticles(ctx, filter)
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to query articles: %w", err)
	}

	cached := QueryResult{Page: page}
	if filter.SearchTerm == "" || page.Total > 0 || s.aggregator == nil {
		return cached, nil
	}

	slog.Info("No stored articles for search, fetching from providers",
		"search_query", filter.SearchTerm,
		"sources", filter.SourceKeys,
	)

	stats, err := s.aggregate(ctx, filter)
	if err != nil {
		slog.Error("Auto-fetch aggregation failed", "search_query", filter.SearchTerm, "error", err)
		return cached, nil
	}

	refreshed, err := s.reader.QueryArticles(ctx, filter)
	if err != nil {
		slog.Error("Auto-fetch re-query failed", "search_query", filter.SearchTerm, "error", err)
		return cached, nil
	}

	slog.Info("Auto-fetch finished",
		"search_query", filter.SearchTerm,
		"total_stored", stats.TotalStored,
		"total", refreshed.Total,
	)

	return QueryResult{Page: refreshed, AutoFetch: true, Stats: &stats}, nil
}

func (s *Service) aggregate(ctx context.Context, filter domain.ArticleFilter) (stats domain.FetchStatistics, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("aggregation panicked: %v", r)
		}
	}()

	params := domain.FetchParams{
		SearchTerm: filter.SearchTerm,
		From:       filter.From,
		To:         filter.To,
	}
	if len(filter.SourceKeys) > 0 {
		return s.aggregator.RunSelected(ctx, filter.SourceKeys, params), nil
	}
	return s.aggregator.RunAll(ctx, params), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	a, err := s.reader.FindArticleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get article %s: %w", id, err)
	}
	return a, nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.reader.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *Service) Authors(ctx context.Context) ([]string, error) {
	authors, err := s.reader.Authors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	return authors, nil
}

// Personalized returns the preference driven feed, newest first.
func (s *Service) Personalized(ctx context.Context, prefs domain.Preferences, page, perPage int) (domain.ArticlePage, error) {
	filter := domain.ArticleFilter{Page: page, PerPage: perPage}
	filter.Normalize()

	result, err := s.reader.Personalized(ctx, prefs, filter.Page, filter.PerPage)
	if err != nil {
		return domain.ArticlePage{}, fmt.Errorf("failed to load personalized feed: %w", err)
	}
	return result, nil
}

func (s *Service) Sources(ctx context.Context) ([]domain.SourceWithCount, error) {
	sources, err := s.sources.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	return sources, nil
}

func (s *Service) SourceByID(ctx context.Context, id uuid.UUID) (*domain.SourceWithCount, error) {
	src, err := s.sources.FindSourceByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get source %s: %w", id, err)
	}
	return src, nil
}
