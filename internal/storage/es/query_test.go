package es

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

func TestEscapeWildcard(t *testing.T) {
	assert.Equal(t, `a\*b\?c\\d`, escapeWildcard(`a*b?c\d`))
}

func TestFilterQuery(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	q := filterQuery(domain.ArticleFilter{
		SearchTerm: " tech ",
		From:       &from,
		Category:   "business",
		SourceKeys: []string{"newsapi"},
		Author:     "Doe",
	})

	require.NotNil(t, q.Bool)
	require.Len(t, q.Bool.Must, 1)
	assert.Equal(t, "tech", q.Bool.Must[0].MultiMatch.Query)
	assert.Len(t, q.Bool.Filter, 5)

	body, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"published_at"`)
	assert.Contains(t, string(body), `"*Doe*"`)
}

func TestFilterQuery_OnlyActiveByDefault(t *testing.T) {
	q := filterQuery(domain.ArticleFilter{})
	assert.Empty(t, q.Bool.Must)
	require.Len(t, q.Bool.Filter, 1)
	assert.Contains(t, q.Bool.Filter[0].Term, "is_active")
}

func TestPreferencesQuery(t *testing.T) {
	q := preferencesQuery(domain.Preferences{
		Sources: []string{"guardian"},
		Authors: []string{"a", "b"},
	})
	require.Len(t, q.Bool.Filter, 3)
	assert.Len(t, q.Bool.Filter[1].Bool.Should, 2)
	assert.Len(t, q.Bool.Filter[2].Bool.Should, 2)
}

func TestArticleDocID_IsStablePerURL(t *testing.T) {
	assert.Equal(t, articleDocID("https://example.com/a"), articleDocID("https://example.com/a"))
	assert.NotEqual(t, articleDocID("https://example.com/a"), articleDocID("https://example.com/b"))
}

func TestResultWindow(t *testing.T) {
	tests := []struct {
		page, perPage int
		from, size    int
	}{
		{page: 1, perPage: 15, from: 0, size: 15},
		{page: 3, perPage: 10, from: 20, size: 10},
		{page: 100, perPage: 100, from: 9900, size: 100},
		{page: 67, perPage: 150, from: 9900, size: 100},
		{page: 101, perPage: 100, from: 0, size: 0},
		{page: 0, perPage: 10, from: 0, size: 10},
	}
	for _, tt := range tests {
		from, size := resultWindow(tt.page, tt.perPage)
		assert.Equal(t, tt.from, from, "page %d", tt.page)
		assert.Equal(t, tt.size, size, "page %d", tt.page)
	}
}
