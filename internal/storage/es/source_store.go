package es

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/optype"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/refresh"
	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

const maxSources = 1000

func (s *Store) FindSourceByKey(ctx context.Context, key string) (*domain.Source, error) {
	var doc sourceDoc
	if err := s.getDocument(ctx, s.sourcesIndex, key, &doc); err != nil {
		if err == storage.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find source %q: %w", key, err)
	}
	src, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("invalid source document %q: %w", key, err)
	}
	return &src, nil
}

func (s *Store) CreateSource(ctx context.Context, in domain.Source) (*domain.Source, error) {
	now := s.now()
	in.ID = uuid.New()
	in.CreatedAt = now
	in.UpdatedAt = now

	_, err := s.client.Index(s.sourcesIndex).
		Id(in.Key).
		Document(newSourceDoc(in)).
		OpType(optype.Create).
		Refresh(refresh.Waitfor).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create source %q: %w", in.Key, err)
	}
	s.sourceNames.Store(in.ID, in)
	return &in, nil
}

func (s *Store) GetOrCreateSource(ctx context.Context, in domain.Source) (*domain.Source, error) {
	src, err := s.CreateSource(ctx, in)
	if err == nil {
		return src, nil
	}
	if !hasStatus(err, 409) {
		return nil, err
	}

	// lost the race or already present
	return s.FindSourceByKey(ctx, in.Key)
}

func (s *Store) UpsertSource(ctx context.Context, in domain.Source) (*domain.Source, error) {
	existing, err := s.FindSourceByKey(ctx, in.Key)
	if err == storage.ErrNotFound {
		return s.GetOrCreateSource(ctx, in)
	}
	if err != nil {
		return nil, err
	}

	existing.Name = in.Name
	existing.BaseURL = in.BaseURL
	existing.Meta = in.Meta
	existing.UpdatedAt = s.now()

	_, err = s.client.Index(s.sourcesIndex).
		Id(existing.Key).
		Document(newSourceDoc(*existing)).
		Refresh(refresh.Waitfor).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert source %q: %w", in.Key, err)
	}
	s.sourceNames.Store(existing.ID, *existing)
	return existing, nil
}

func (s *Store) ListSources(ctx context.Context) ([]domain.SourceWithCount, error) {
	sources, err := s.searchSources(ctx, &types.Query{MatchAll: types.NewMatchAllQuery()})
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	counts, err := s.articleCounts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SourceWithCount, 0, len(sources))
	for _, src := range sources {
		out = append(out, domain.SourceWithCount{Source: src, ArticlesCount: counts[src.ID.String()]})
	}
	slices.SortFunc(out, func(a, b domain.SourceWithCount) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (s *Store) FindSourceByID(ctx context.Context, id uuid.UUID) (*domain.SourceWithCount, error) {
	src, err := s.sourceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := s.client.Search().
		Index(s.articlesIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Filter: []types.Query{
					*termQuery("is_active", true),
					*termQuery("source_id", id.String()),
				},
			},
		}).
		Size(0).
		TrackTotalHits(true).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles of source %s: %w", id, err)
	}

	var count int64
	if res.Hits.Total != nil {
		count = res.Hits.Total.Value
	}
	return &domain.SourceWithCount{Source: *src, ArticlesCount: count}, nil
}

// sourceByID resolves a source by its id, consulting the cache first.
func (s *Store) sourceByID(ctx context.Context, id uuid.UUID) (*domain.Source, error) {
	if cached, ok := s.sourceNames.Load(id); ok {
		src := cached.(domain.Source)
		return &src, nil
	}

	sources, err := s.searchSources(ctx, termQuery("id", id.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to find source %s: %w", id, err)
	}
	if len(sources) == 0 {
		return nil, storage.ErrNotFound
	}
	s.sourceNames.Store(id, sources[0])
	return &sources[0], nil
}

func (s *Store) searchSources(ctx context.Context, query *types.Query) ([]domain.Source, error) {
	res, err := s.client.Search().
		Index(s.sourcesIndex).
		Query(query).
		Size(maxSources).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	sources := make([]domain.Source, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc sourceDoc
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal source document: %w", err)
		}
		src, err := doc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("invalid source document %q: %w", doc.Key, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// articleCounts counts active articles per source id.
func (s *Store) articleCounts(ctx context.Context) (map[string]int64, error) {
	buckets, err := s.termsBuckets(ctx, "source_id", maxSources)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles per source: %w", err)
	}
	counts := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		counts[b.key] = b.count
	}
	return counts, nil
}
