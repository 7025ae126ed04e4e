package es

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

// articleFields are the fields overwritten by an upsert.
// Nullable fields are not omitted so that an update clears them.
type articleFields struct {
	SourceID        string          `json:"source_id"`
	SourceKey       string          `json:"source_key"`
	SourceName      string          `json:"source_name"`
	SourceArticleID *string         `json:"source_article_id"`
	Title           string          `json:"title"`
	Description     *string         `json:"description"`
	Content         *string         `json:"content"`
	URL             string          `json:"url"`
	URLToImage      *string         `json:"url_to_image"`
	PublishedAt     *time.Time      `json:"published_at"`
	AuthorName      *string         `json:"author_name"`
	Category        *string         `json:"category"`
	Raw             json.RawMessage `json:"raw,omitempty"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type articleDoc struct {
	ID string `json:"id"`
	articleFields
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// articleDocID derives the document id from the URL, so every writer of
// one URL addresses the same document.
func articleDocID(url string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url))
}

func newArticleFields(in domain.ArticleUpsert, src *domain.Source, now time.Time) articleFields {
	f := articleFields{
		SourceID:        in.SourceID.String(),
		SourceArticleID: in.SourceArticleID,
		Title:           in.Title,
		Description:     in.Description,
		Content:         in.Content,
		URL:             in.URL,
		URLToImage:      in.URLToImage,
		PublishedAt:     in.PublishedAt,
		AuthorName:      in.AuthorName,
		Category:        in.Category,
		Raw:             in.Raw,
		UpdatedAt:       now,
	}
	if src != nil {
		f.SourceKey = src.Key
		f.SourceName = src.Name
	}
	return f
}

func (d articleDoc) toDomain() (domain.Article, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Article{}, err
	}
	sourceID, err := uuid.Parse(d.SourceID)
	if err != nil {
		return domain.Article{}, err
	}

	return domain.Article{
		ID:              id,
		SourceID:        sourceID,
		SourceArticleID: d.SourceArticleID,
		Title:           d.Title,
		Description:     d.Description,
		Content:         d.Content,
		URL:             d.URL,
		URLToImage:      d.URLToImage,
		PublishedAt:     d.PublishedAt,
		AuthorName:      d.AuthorName,
		Category:        d.Category,
		Raw:             d.Raw,
		IsActive:        d.IsActive,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		Source:          &domain.Source{ID: sourceID, Key: d.SourceKey, Name: d.SourceName},
	}, nil
}

type sourceDoc struct {
	ID        string            `json:"id"`
	Key       string            `json:"key"`
	Name      string            `json:"name"`
	BaseURL   string            `json:"base_url"`
	Meta      domain.SourceMeta `json:"meta"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func newSourceDoc(src domain.Source) sourceDoc {
	return sourceDoc{
		ID:        src.ID.String(),
		Key:       src.Key,
		Name:      src.Name,
		BaseURL:   src.BaseURL,
		Meta:      src.Meta,
		CreatedAt: src.CreatedAt,
		UpdatedAt: src.UpdatedAt,
	}
}

func (d sourceDoc) toDomain() (domain.Source, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Source{}, err
	}
	return domain.Source{
		ID:        id,
		Key:       d.Key,
		Name:      d.Name,
		BaseURL:   d.BaseURL,
		Meta:      d.Meta,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}
