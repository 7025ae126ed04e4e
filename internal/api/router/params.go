package router

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/utils"
)

const (
	maxSearchQueryLen = 255
	maxCategoryLen    = 100
	maxNameLen        = 150
)

func maxLen(name, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return apperr.NewFieldValidation(name, "must not exceed %d characters", limit)
	}
	return nil
}

// parseDate accepts a calendar date or an RFC3339 timestamp. A calendar
// date used as an upper bound covers the whole day.
func parseDate(name, value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(provider.DateLayout, value); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, apperr.NewValidationWrap("invalid "+name, err)
	}
	t = t.UTC()
	return &t, nil
}

func parseDateRange(fromName, from, toName, to string) (*time.Time, *time.Time, error) {
	fromDate, err := parseDate(fromName, from, false)
	if err != nil {
		return nil, nil, err
	}
	toDate, err := parseDate(toName, to, true)
	if err != nil {
		return nil, nil, err
	}
	if fromDate != nil && toDate != nil && toDate.Before(*fromDate) {
		return nil, nil, apperr.NewFieldValidation(toName, "must not be before %s", fromName)
	}
	return fromDate, toDate, nil
}

func parseOffset(c echo.Context) (pagination.OffsetRequest, error) {
	var req pagination.OffsetRequest
	for name, dst := range map[string]*int{"page": &req.Page, "per_page": &req.PerPage} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return req, apperr.NewFieldValidation(name, "must be a positive integer")
		}
		*dst = n
	}
	if err := req.Validate(); err != nil {
		return req, apperr.NewValidationWrap("invalid pagination", err)
	}
	return req, nil
}

// parseArticleFilter maps the article list query parameters to a filter.
func parseArticleFilter(c echo.Context) (domain.ArticleFilter, error) {
	var f domain.ArticleFilter

	f.SearchTerm = strings.TrimSpace(c.QueryParam("search_query"))
	if err := maxLen("search_query", f.SearchTerm, maxSearchQueryLen); err != nil {
		return f, err
	}

	from, to, err := parseDateRange("from_date", c.QueryParam("from_date"), "to_date", c.QueryParam("to_date"))
	if err != nil {
		return f, err
	}
	f.From, f.To = from, to

	f.Category = strings.TrimSpace(c.QueryParam("article_category"))
	if err := maxLen("article_category", f.Category, maxCategoryLen); err != nil {
		return f, err
	}

	sourceKey := c.QueryParam("source_key")
	if err := maxLen("source_key", sourceKey, maxNameLen); err != nil {
		return f, err
	}
	f.SourceKeys = utils.SplitList(sourceKey)

	f.Author = strings.TrimSpace(c.QueryParam("author_name"))
	if err := maxLen("author_name", f.Author, maxNameLen); err != nil {
		return f, err
	}

	switch order := domain.SortOrder(c.QueryParam("sort_order")); order {
	case "":
		f.Sort = domain.SortDesc
	case domain.SortAsc, domain.SortDesc:
		f.Sort = order
	default:
		return f, apperr.NewFieldValidation("sort_order", "must be one of asc, desc")
	}

	page, err := parseOffset(c)
	if err != nil {
		return f, err
	}
	f.Page, f.PerPage = page.Page, page.PerPage

	return f, nil
}

// parseFetchRequest validates an explicit fetch trigger.
func parseFetchRequest(req FetchRequest) ([]string, domain.FetchParams, error) {
	var params domain.FetchParams

	params.SearchTerm = strings.TrimSpace(req.Query)
	if err := maxLen("q", params.SearchTerm, maxSearchQueryLen); err != nil {
		return nil, params, err
	}
	params.Category = strings.TrimSpace(req.Category)
	if err := maxLen("category", params.Category, maxCategoryLen); err != nil {
		return nil, params, err
	}

	from, to, err := parseDateRange("from", req.From, "to", req.To)
	if err != nil {
		return nil, params, err
	}
	params.From, params.To = from, to

	var keys []string
	for _, k := range req.Sources {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys, params, nil
}
