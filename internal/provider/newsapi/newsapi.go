package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
)

const (
	SourceKey      = "newsapi"
	DefaultBaseURL = "https://newsapi.org/v2"

	defaultPageSize = 50
	defaultLanguage = "en"
	// the everything endpoint rejects calls without any filter
	defaultQuery = "news OR technology OR business OR sports"

	topHeadlinesPath = "/top-headlines"
	everythingPath   = "/everything"
)

type Fetcher struct {
	apiKey string
	client *provider.Client
}

func New(settings provider.Settings, opts ...provider.ClientOption) (*Fetcher, error) {
	if settings.APIKey == "" {
		return nil, &provider.ConfigError{Provider: SourceKey, Setting: "NEWSAPI_KEY"}
	}
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client, err := provider.NewClient(baseURL, append(settings.ClientOptions(), opts...)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", SourceKey, err)
	}

	return &Fetcher{apiKey: settings.APIKey, client: client}, nil
}

func (f *Fetcher) SourceKey() string {
	return SourceKey
}

type response struct {
	Status       string                `json:"status"`
	Code         string                `json:"code"`
	Message      string                `json:"message"`
	TotalResults int                   `json:"totalResults"`
	Articles     []provider.RawArticle `json:"articles"`
}

func (f *Fetcher) FetchArticles(ctx context.Context, params domain.FetchParams) provider.Result {
	path, query := f.buildQuery(params)

	var resp response
	if err := f.client.GetJSON(ctx, path, query, &resp); err != nil {
		slog.Error("NewsAPI fetch failed", "endpoint", path, "error", err)
		return provider.Failure(err)
	}
	if resp.Status == "error" {
		err := fmt.Errorf("newsapi error %s: %s", resp.Code, resp.Message)
		slog.Error("NewsAPI fetch failed", "endpoint", path, "error", err)
		return provider.Failure(err)
	}

	slog.Info("NewsAPI fetch successful",
		"endpoint", path,
		"total_results", resp.TotalResults,
		"fetched", len(resp.Articles),
	)

	return provider.Success(resp.Articles)
}

func (f *Fetcher) buildQuery(params domain.FetchParams) (string, url.Values) {
	query := url.Values{}
	query.Set("apiKey", f.apiKey)

	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	query.Set("pageSize", strconv.Itoa(pageSize))

	language := params.Language
	if language == "" {
		language = defaultLanguage
	}
	query.Set("language", language)

	if params.SearchTerm != "" {
		query.Set("q", params.SearchTerm)
	}
	if from := provider.FormatDate(params.From, provider.DateLayout); from != "" {
		query.Set("from", from)
	}
	if to := provider.FormatDate(params.To, provider.DateLayout); to != "" {
		query.Set("to", to)
	}

	if params.Category != "" {
		query.Set("category", params.Category)
		return topHeadlinesPath, query
	}

	if params.SearchTerm == "" {
		query.Set("q", defaultQuery)
	}

	return everythingPath, query
}

type article struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// TransformArticle maps a NewsAPI record. NewsAPI has no stable article id,
// so the URL doubles as the source article id. Category is never supplied.
func (f *Fetcher) TransformArticle(raw provider.RawArticle) (domain.NormalizedArticle, error) {
	var a article
	if err := json.Unmarshal(raw, &a); err != nil {
		return domain.NormalizedArticle{}, fmt.Errorf("decode newsapi article: %w", err)
	}

	return domain.NormalizedArticle{
		SourceArticleID: domain.StringPtr(a.URL),
		Title:           a.Title,
		Description:     domain.StringPtr(a.Description),
		Content:         domain.StringPtr(a.Content),
		URL:             a.URL,
		URLToImage:      domain.StringPtr(a.URLToImage),
		PublishedAt:     provider.ParseTimestamp(a.PublishedAt),
		AuthorName:      domain.StringPtr(a.Author),
		Raw:             raw,
	}, nil
}
