package es

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/typedapi/core/update"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/refresh"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

const retryOnConflict = 3

// UpsertArticleByURL writes the article under a document id derived from
// its URL. The update keeps id, is_active and created_at of an existing
// document; the upsert body carries them for a first write.
func (s *Store) UpsertArticleByURL(ctx context.Context, in domain.ArticleUpsert) (*domain.Article, error) {
	src, err := s.sourceByID(ctx, in.SourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source %s: %w", in.SourceID, err)
	}

	now := s.now()
	id := articleDocID(in.URL)
	fields := newArticleFields(in, src, now)

	partial, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal article %q: %w", in.URL, err)
	}
	full, err := json.Marshal(articleDoc{
		ID:            id.String(),
		articleFields: fields,
		IsActive:      true,
		CreatedAt:     now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal article %q: %w", in.URL, err)
	}

	req := update.NewRequest()
	req.Doc = partial
	req.Upsert = full

	_, err = s.client.Update(s.articlesIndex, id.String()).
		Request(req).
		RetryOnConflict(retryOnConflict).
		Refresh(refresh.Waitfor).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert article %q: %w", in.URL, err)
	}

	doc, err := s.findArticleDoc(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read back article %q: %w", in.URL, err)
	}
	article, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("invalid article document %s: %w", id, err)
	}
	return &article, nil
}
