package es

import (
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

var searchFields = []string{"title", "description", "content"}

func termQuery(field string, value types.FieldValue) *types.Query {
	return &types.Query{
		Term: map[string]types.TermQuery{
			field: {Value: value},
		},
	}
}

func termsQuery(field string, values []string) *types.Query {
	fieldValues := make([]types.FieldValue, 0, len(values))
	for _, v := range values {
		fieldValues = append(fieldValues, v)
	}
	return &types.Query{
		Terms: &types.TermsQuery{
			TermsQuery: map[string]types.TermsQueryField{
				field: fieldValues,
			},
		},
	}
}

// containsQuery matches keyword values containing value, ignoring case.
func containsQuery(field, value string) *types.Query {
	pattern := "*" + escapeWildcard(value) + "*"
	caseInsensitive := true
	return &types.Query{
		Wildcard: map[string]types.WildcardQuery{
			field: {Value: &pattern, CaseInsensitive: &caseInsensitive},
		},
	}
}

func escapeWildcard(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`).Replace(s)
}

func dateRangeQuery(from, to *time.Time) *types.Query {
	r := types.DateRangeQuery{}
	if from != nil {
		gte := from.UTC().Format(time.RFC3339Nano)
		r.Gte = &gte
	}
	if to != nil {
		lte := to.UTC().Format(time.RFC3339Nano)
		r.Lte = &lte
	}
	return &types.Query{
		Range: map[string]types.RangeQuery{
			"published_at": r,
		},
	}
}

func filterQuery(f domain.ArticleFilter) *types.Query {
	filters := []types.Query{*termQuery("is_active", true)}
	var must []types.Query

	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		must = append(must, types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  term,
				Fields: searchFields,
			},
		})
	}
	if f.From != nil || f.To != nil {
		filters = append(filters, *dateRangeQuery(f.From, f.To))
	}
	if f.Category != "" {
		filters = append(filters, *termQuery("category", f.Category))
	}
	if len(f.SourceKeys) > 0 {
		filters = append(filters, *termsQuery("source_key", f.SourceKeys))
	}
	if f.Author != "" {
		filters = append(filters, *containsQuery("author_name.keyword", f.Author))
	}

	return &types.Query{
		Bool: &types.BoolQuery{
			Must:   must,
			Filter: filters,
		},
	}
}

// anyOf matches when at least one of the queries does.
func anyOf(queries ...types.Query) types.Query {
	return types.Query{
		Bool: &types.BoolQuery{
			Should:             queries,
			MinimumShouldMatch: 1,
		},
	}
}

func preferencesQuery(p domain.Preferences) *types.Query {
	filters := []types.Query{*termQuery("is_active", true)}

	if len(p.Sources) > 0 {
		filters = append(filters, anyOf(
			*termsQuery("source_key", p.Sources),
			*termsQuery("source_name.keyword", p.Sources),
		))
	}
	if len(p.Categories) > 0 {
		filters = append(filters, *termsQuery("category", p.Categories))
	}
	if len(p.Authors) > 0 {
		authors := make([]types.Query, 0, len(p.Authors))
		for _, a := range p.Authors {
			authors = append(authors, *containsQuery("author_name.keyword", a))
		}
		filters = append(filters, anyOf(authors...))
	}

	return &types.Query{
		Bool: &types.BoolQuery{
			Filter: filters,
		},
	}
}

// sortOptions orders by publication date with undated articles last.
func sortOptions(order domain.SortOrder) []types.SortCombinations {
	published := sortorder.Desc
	if order == domain.SortAsc {
		published = sortorder.Asc
	}
	tiebreak := sortorder.Asc

	return []types.SortCombinations{
		&types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				"published_at": {Order: &published, Missing: "_last"},
			},
		},
		&types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				"id": {Order: &tiebreak},
			},
		},
	}
}
