package guardian

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
	SourceKey      = "guardian"
	DefaultBaseURL = "https://content.guardianapis.com"

	defaultPageSize = 50
	searchPath      = "/search"
	contributorTag  = "contributor"
	showFields      = "trailText,body,thumbnail,byline"
)

type Fetcher struct {
	apiKey string
	client *provider.Client
}

func New(settings provider.Settings, opts ...provider.ClientOption) (*Fetcher, error) {
	if settings.APIKey == "" {
		return nil, &provider.ConfigError{Provider: SourceKey, Setting: "GUARDIAN_API_KEY"}
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
	Response struct {
		Status  string                `json:"status"`
		Message string                `json:"message"`
		Total   int                   `json:"total"`
		Results []provider.RawArticle `json:"results"`
	} `json:"response"`
}

func (f *Fetcher) FetchArticles(ctx context.Context, params domain.FetchParams) provider.Result {
	query := f.buildQuery(params)

	var resp response
	if err := f.client.GetJSON(ctx, searchPath, query, &resp); err != nil {
		slog.Error("Guardian fetch failed", "error", err)
		return provider.Failure(err)
	}
	if resp.Response.Status == "error" {
		err := fmt.Errorf("guardian error: %s", resp.Response.Message)
		slog.Error("Guardian fetch failed", "error", err)
		return provider.Failure(err)
	}

	slog.Info("Guardian fetch successful",
		"total", resp.Response.Total,
		"fetched", len(resp.Response.Results),
	)

	return provider.Success(resp.Response.Results)
}

func (f *Fetcher) buildQuery(params domain.FetchParams) url.Values {
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	query := url.Values{}
	query.Set("api-key", f.apiKey)
	query.Set("page-size", strconv.Itoa(pageSize))
	query.Set("show-tags", contributorTag)
	query.Set("show-fields", showFields)
	query.Set("order-by", "newest")

	if params.SearchTerm != "" {
		query.Set("q", params.SearchTerm)
	}
	if params.Category != "" {
		query.Set("section", params.Category)
	}
	if from := provider.FormatDate(params.From, provider.DateLayout); from != "" {
		query.Set("from-date", from)
	}
	if to := provider.FormatDate(params.To, provider.DateLayout); to != "" {
		query.Set("to-date", to)
	}

	return query
}

type article struct {
	ID                 string `json:"id"`
	SectionName        string `json:"sectionName"`
	WebTitle           string `json:"webTitle"`
	WebURL             string `json:"webUrl"`
	WebPublicationDate string `json:"webPublicationDate"`
	Fields             struct {
		TrailText string `json:"trailText"`
		Body      string `json:"body"`
		Thumbnail string `json:"thumbnail"`
		Byline    string `json:"byline"`
	} `json:"fields"`
	Tags []tag `json:"tags"`
}

type tag struct {
	Type     string `json:"type"`
	WebTitle string `json:"webTitle"`
}

func (f *Fetcher) TransformArticle(raw provider.RawArticle) (domain.NormalizedArticle, error) {
	var a article
	if err := json.Unmarshal(raw, &a); err != nil {
		return domain.NormalizedArticle{}, fmt.Errorf("decode guardian article: %w", err)
	}

	return domain.NormalizedArticle{
		SourceArticleID: domain.StringPtr(a.ID),
		Title:           a.WebTitle,
		Description:     domain.StringPtr(a.Fields.TrailText),
		Content:         domain.StringPtr(a.Fields.Body),
		URL:             a.WebURL,
		URLToImage:      domain.StringPtr(a.Fields.Thumbnail),
		PublishedAt:     provider.ParseTimestamp(a.WebPublicationDate),
		AuthorName:      domain.StringPtr(author(a)),
		Category:        domain.StringPtr(a.SectionName),
		Raw:             raw,
	}, nil
}

// author prefers the first contributor tag over the free-text byline.
func author(a article) string {
	for _, t := range a.Tags {
		if t.Type == contributorTag && t.WebTitle != "" {
			return t.WebTitle
		}
	}
	return a.Fields.Byline
}
