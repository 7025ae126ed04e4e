package es

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

// Store implements the source and article stores on Elasticsearch.
// Sources are keyed by their key, articles by a name-based UUID of their URL.
type Store struct {
	client        *elasticsearch.TypedClient
	articlesIndex string
	sourcesIndex  string
	now           func() time.Time

	// sourceNames caches source documents by id for denormalizing articles.
	sourceNames sync.Map
}

func NewStore(config ClientConfig) (*Store, error) {
	if config.IndexName == "" {
		return nil, fmt.Errorf("elasticsearch index name is required")
	}

	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &Store{
		client:        client,
		articlesIndex: config.articlesIndex(),
		sourcesIndex:  config.sourcesIndex(),
		now:           func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Store) getDocument(ctx context.Context, index, id string, out any) error {
	res, err := s.client.Get(index, id).Do(ctx)
	if err != nil {
		if hasStatus(err, 404) {
			return storage.ErrNotFound
		}
		return err
	}
	if !res.Found {
		return storage.ErrNotFound
	}
	if err := json.Unmarshal(res.Source_, out); err != nil {
		return fmt.Errorf("failed to unmarshal document %s: %w", id, err)
	}
	return nil
}

func (s *Store) findArticleDoc(ctx context.Context, id uuid.UUID) (*articleDoc, error) {
	var doc articleDoc
	if err := s.getDocument(ctx, s.articlesIndex, id.String(), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
