package nytimes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
)

const (
	SourceKey      = "nytimes"
	DefaultBaseURL = "https://api.nytimes.com/svc/search/v2"

	searchPath   = "articlesearch.json"
	imageDomain  = "https://www.nytimes.com/"
	bylinePrefix = "By "
)

type Fetcher struct {
	apiKey string
	path   string
	client *provider.Client
}

func New(settings provider.Settings, opts ...provider.ClientOption) (*Fetcher, error) {
	if settings.APIKey == "" {
		return nil, &provider.ConfigError{Provider: SourceKey, Setting: "NYT_API_KEY"}
	}
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client, err := provider.NewClient(baseURL, append(settings.ClientOptions(), opts...)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", SourceKey, err)
	}

	path := searchPath
	if strings.HasSuffix(strings.TrimRight(baseURL, "/"), "/"+searchPath) {
		path = ""
	}

	return &Fetcher{apiKey: settings.APIKey, path: path, client: client}, nil
}

func (f *Fetcher) SourceKey() string {
	return SourceKey
}

type response struct {
	Status string `json:"status"`
	Fault  *struct {
		FaultString string `json:"faultstring"`
	} `json:"fault"`
	Response struct {
		Docs []provider.RawArticle `json:"docs"`
	} `json:"response"`
}

func (f *Fetcher) FetchArticles(ctx context.Context, params domain.FetchParams) provider.Result {
	query := f.buildQuery(params)

	var resp response
	if err := f.client.GetJSON(ctx, f.path, query, &resp); err != nil {
		slog.Error("NYTimes fetch failed", "error", err)
		return provider.Failure(err)
	}
	if resp.Fault != nil {
		err := fmt.Errorf("nytimes fault: %s", resp.Fault.FaultString)
		slog.Error("NYTimes fetch failed", "error", err)
		return provider.Failure(err)
	}

	slog.Info("NYTimes fetch successful", "fetched", len(resp.Response.Docs))

	return provider.Success(resp.Response.Docs)
}

func (f *Fetcher) buildQuery(params domain.FetchParams) url.Values {
	query := url.Values{}
	query.Set("api-key", f.apiKey)
	query.Set("page", strconv.Itoa(max(params.Page, 0)))

	if params.SearchTerm != "" {
		query.Set("q", params.SearchTerm)
	}
	if params.Category != "" {
		query.Set("fq", params.Category)
	}
	if from := provider.FormatDate(params.From, provider.CompactDateLayout); from != "" {
		query.Set("begin_date", from)
	}
	if to := provider.FormatDate(params.To, provider.CompactDateLayout); to != "" {
		query.Set("end_date", to)
	}

	return query
}

type article struct {
	ID            string `json:"_id"`
	Abstract      string `json:"abstract"`
	LeadParagraph string `json:"lead_paragraph"`
	WebURL        string `json:"web_url"`
	PubDate       string `json:"pub_date"`
	SectionName   string `json:"section_name"`
	NewsDesk      string `json:"news_desk"`
	Headline      struct {
		Main string `json:"main"`
	} `json:"headline"`
	Byline struct {
		Original string   `json:"original"`
		Person   []person `json:"person"`
	} `json:"byline"`
	Multimedia json.RawMessage `json:"multimedia"`
}

type person struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

type media struct {
	URL string `json:"url"`
}

func (f *Fetcher) TransformArticle(raw provider.RawArticle) (domain.NormalizedArticle, error) {
	var a article
	if err := json.Unmarshal(raw, &a); err != nil {
		return domain.NormalizedArticle{}, fmt.Errorf("decode nytimes article: %w", err)
	}

	category := a.SectionName
	if category == "" {
		category = a.NewsDesk
	}

	return domain.NormalizedArticle{
		SourceArticleID: domain.StringPtr(a.ID),
		Title:           a.Headline.Main,
		Description:     domain.StringPtr(a.Abstract),
		Content:         domain.StringPtr(a.LeadParagraph),
		URL:             a.WebURL,
		URLToImage:      domain.StringPtr(imageURL(a.Multimedia)),
		PublishedAt:     provider.ParseTimestamp(a.PubDate),
		AuthorName:      domain.StringPtr(author(a)),
		Category:        domain.StringPtr(category),
		Raw:             raw,
	}, nil
}

func author(a article) string {
	if original := strings.TrimSpace(a.Byline.Original); original != "" {
		return strings.TrimSpace(strings.TrimPrefix(original, bylinePrefix))
	}
	if len(a.Byline.Person) > 0 {
		p := a.Byline.Person[0]
		return strings.TrimSpace(p.FirstName + " " + p.LastName)
	}
	return ""
}

// imageURL accepts both the legacy multimedia array and the newer
// {"default": {...}} object. Relative paths are joined with the site domain.
func imageURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var path string
	var list []media
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) > 0 {
			path = list[0].URL
		}
	} else {
		var obj struct {
			Default media `json:"default"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil {
			path = obj.Default.URL
		}
	}

	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return imageDomain + strings.TrimLeft(path, "/")
}
