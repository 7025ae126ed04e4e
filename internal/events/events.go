// Package events emits notifications about stored articles.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

// ArticleStored is emitted after an article was inserted or updated.
type ArticleStored struct {
	ArticleID   uuid.UUID  `json:"article_id"`
	SourceID    uuid.UUID  `json:"source_id"`
	SourceKey   string     `json:"source_key"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Category    *string    `json:"category,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	StoredAt    time.Time  `json:"stored_at"`
}

func NewArticleStored(sourceKey string, a domain.Article) ArticleStored {
	return ArticleStored{
		ArticleID:   a.ID,
		SourceID:    a.SourceID,
		SourceKey:   sourceKey,
		URL:         a.URL,
		Title:       a.Title,
		Category:    a.Category,
		PublishedAt: a.PublishedAt,
		StoredAt:    a.UpdatedAt,
	}
}

type Publisher interface {
	PublishArticleStored(ctx context.Context, event ArticleStored) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) PublishArticleStored(context.Context, ArticleStored) error { return nil }

func (Noop) Close() error { return nil }
