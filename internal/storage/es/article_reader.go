package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

const (
	maxFacetValues = 10000
	// maxResultWindow is the index.max_result_window default; from+size beyond it is rejected.
	maxResultWindow = 10000
)

// resultWindow maps a page to from/size, shrinking the page at the end of
// the result window. Pages past the window only report the total.
func resultWindow(page, perPage int) (from, size int) {
	from = max(0, (page-1)*perPage)
	if from >= maxResultWindow {
		return 0, 0
	}
	return from, min(perPage, maxResultWindow-from)
}

func (s *Store) QueryArticles(ctx context.Context, filter domain.ArticleFilter) (domain.ArticlePage, error) {
	filter.Normalize()
	slog.Debug("Executing es article query",
		"search_query", filter.SearchTerm,
		"page", filter.Page,
		"per_page", filter.PerPage,
	)

	return s.page(ctx, filterQuery(filter), filter.Sort, filter.Page, filter.PerPage)
}

func (s *Store) Personalized(ctx context.Context, prefs domain.Preferences, page, perPage int) (domain.ArticlePage, error) {
	filter := domain.ArticleFilter{Page: page, PerPage: perPage}
	filter.Normalize()

	return s.page(ctx, preferencesQuery(prefs), domain.SortDesc, filter.Page, filter.PerPage)
}

func (s *Store) page(ctx context.Context, query *types.Query, sort domain.SortOrder, page, perPage int) (domain.ArticlePage, error) {
	from, size := resultWindow(page, perPage)
	res, err := s.client.Search().
		Index(s.articlesIndex).
		Query(query).
		Sort(sortOptions(sort)...).
		From(from).
		Size(size).
		TrackTotalHits(true).
		Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch query failed", "error", err)
		return domain.ArticlePage{}, fmt.Errorf("failed to query articles: %w", err)
	}

	items := make([]domain.Article, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc articleDoc
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return domain.ArticlePage{}, fmt.Errorf("failed to unmarshal article document: %w", err)
		}
		article, err := doc.toDomain()
		if err != nil {
			return domain.ArticlePage{}, fmt.Errorf("invalid article document %s: %w", doc.ID, err)
		}
		items = append(items, article)
	}

	var total int64
	if res.Hits.Total != nil {
		total = res.Hits.Total.Value
	}
	return domain.ArticlePage{Items: items, Total: total}, nil
}

func (s *Store) FindArticleByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	doc, err := s.findArticleDoc(ctx, id)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find article %s: %w", id, err)
	}
	if !doc.IsActive {
		return nil, storage.ErrNotFound
	}
	article, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("invalid article document %s: %w", id, err)
	}
	return &article, nil
}

func (s *Store) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "category")
}

func (s *Store) Authors(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "author_name.keyword")
}

func (s *Store) distinct(ctx context.Context, field string) ([]string, error) {
	buckets, err := s.termsBuckets(ctx, field, maxFacetValues)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", field, err)
	}
	values := make([]string, 0, len(buckets))
	for _, b := range buckets {
		if b.key != "" {
			values = append(values, b.key)
		}
	}
	slices.Sort(values)
	return values, nil
}

type bucket struct {
	key   string
	count int64
}

// termsBuckets aggregates the values of a keyword field over active articles.
func (s *Store) termsBuckets(ctx context.Context, field string, size int) ([]bucket, error) {
	const aggName = "values"

	res, err := s.client.Search().
		Index(s.articlesIndex).
		Query(termQuery("is_active", true)).
		Size(0).
		Aggregations(map[string]types.Aggregations{
			aggName: {
				Terms: &types.TermsAggregation{Field: &field, Size: &size},
			},
		}).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	agg, ok := res.Aggregations[aggName].(*types.StringTermsAggregate)
	if !ok {
		// an empty index yields no string buckets
		return nil, nil
	}

	var raw []types.StringTermsBucket
	switch b := agg.Buckets.(type) {
	case []types.StringTermsBucket:
		raw = b
	case map[string]types.StringTermsBucket:
		for _, v := range b {
			raw = append(raw, v)
		}
	}

	out := make([]bucket, 0, len(raw))
	for _, b := range raw {
		out = append(out, bucket{key: fmt.Sprint(b.Key), count: b.DocCount})
	}
	return out, nil
}
