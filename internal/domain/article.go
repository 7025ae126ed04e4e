package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Article is a stored, provider-agnostic news item.
// The URL is the deduplication key across all providers and fetch runs.
type Article struct {
	ID              uuid.UUID       `json:"id"`
	SourceID        uuid.UUID       `json:"source_id"`
	SourceArticleID *string         `json:"source_article_id,omitempty"`
	Title           string          `json:"title"`
	Description     *string         `json:"description,omitempty"`
	Content         *string         `json:"content,omitempty"`
	URL             string          `json:"url"`
	URLToImage      *string         `json:"url_to_image,omitempty"`
	PublishedAt     *time.Time      `json:"published_at,omitempty"`
	AuthorName      *string         `json:"author_name,omitempty"`
	Category        *string         `json:"category,omitempty"`
	Raw             json.RawMessage `json:"raw,omitempty" swaggertype:"object"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Source is populated by read queries only.
	Source *Source `json:"source,omitempty"`
}

// NormalizedArticle is the output of a provider transform: the canonical
// article fields before a source id has been assigned.
type NormalizedArticle struct {
	SourceArticleID *string
	Title           string
	Description     *string
	Content         *string
	URL             string
	URLToImage      *string
	PublishedAt     *time.Time
	AuthorName      *string
	Category        *string
	Raw             json.RawMessage
}

// Storable reports whether the article carries the fields required for storage.
func (n NormalizedArticle) Storable() bool {
	return n.URL != "" && n.Title != ""
}

// ArticleUpsert is the write model for an insert-or-update keyed by URL.
type ArticleUpsert struct {
	SourceID uuid.UUID
	NormalizedArticle
}

// StringPtr returns nil for an empty string, and a pointer to s otherwise.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
