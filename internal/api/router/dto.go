package router

import (
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
)

type SourceRef struct {
	ID   uuid.UUID `json:"id"`
	Key  string    `json:"key"`
	Name string    `json:"name"`
}

// ArticleResponse is the public shape of an article. The raw provider
// payload is not exposed.
type ArticleResponse struct {
	ID              uuid.UUID  `json:"id"`
	Source          *SourceRef `json:"source,omitempty"`
	SourceArticleID *string    `json:"source_article_id,omitempty"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	Content         *string    `json:"content,omitempty"`
	URL             string     `json:"url"`
	URLToImage      *string    `json:"url_to_image"`
	PublishedAt     *time.Time `json:"published_at"`
	AuthorName      *string    `json:"author_name"`
	Category        *string    `json:"category"`
	CreatedAt       time.Time  `json:"created_at"`
}

func newArticleResponse(a domain.Article) ArticleResponse {
	res := ArticleResponse{
		ID:              a.ID,
		SourceArticleID: a.SourceArticleID,
		Title:           a.Title,
		Description:     a.Description,
		Content:         a.Content,
		URL:             a.URL,
		URLToImage:      a.URLToImage,
		PublishedAt:     a.PublishedAt,
		AuthorName:      a.AuthorName,
		Category:        a.Category,
		CreatedAt:       a.CreatedAt,
	}
	if a.Source != nil {
		res.Source = &SourceRef{ID: a.Source.ID, Key: a.Source.Key, Name: a.Source.Name}
	}
	return res
}

func newArticleResponses(items []domain.Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(items))
	for _, a := range items {
		out = append(out, newArticleResponse(a))
	}
	return out
}

type ArticleListResponse struct {
	*pagination.OffsetResult[ArticleResponse]
	// AutoFetch is true when the providers were queried to answer the search.
	AutoFetch  bool                    `json:"auto_fetch"`
	FetchStats *domain.FetchStatistics `json:"fetch_stats,omitempty"`
	Message    string                  `json:"message"`
}

type PreferencesRequest struct {
	Preferences *domain.Preferences `json:"preferences"`
}

type PreferencesResponse struct {
	UserID      string             `json:"user_id"`
	Preferences domain.Preferences `json:"preferences"`
}

type FetchRequest struct {
	Sources  []string `json:"sources"`
	Query    string   `json:"q"`
	Category string   `json:"category"`
	From     string   `json:"from"`
	To       string   `json:"to"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
