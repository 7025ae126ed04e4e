package in_mem

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

func seedSource(t *testing.T, s *Store, key, name string) *domain.Source {
	t.Helper()
	src, err := s.GetOrCreateSource(t.Context(), domain.Source{Key: key, Name: name})
	require.NoError(t, err)
	return src
}

func upsert(t *testing.T, s *Store, src domain.Source, url, title string, mutate ...func(*domain.ArticleUpsert)) *domain.Article {
	t.Helper()
	in := domain.ArticleUpsert{
		SourceID:          src.ID,
		NormalizedArticle: domain.NormalizedArticle{URL: url, Title: title},
	}
	for _, m := range mutate {
		m(&in)
	}
	a, err := s.UpsertArticleByURL(t.Context(), in)
	require.NoError(t, err)
	return a
}

func publishedAt(ts time.Time) func(*domain.ArticleUpsert) {
	return func(a *domain.ArticleUpsert) { a.PublishedAt = &ts }
}

func TestGetOrCreateSource_FirstWriterWins(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	ids := make([]string, 10)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src, err := s.GetOrCreateSource(t.Context(), domain.Source{Key: "guardian", Name: "The Guardian"})
			if assert.NoError(t, err) {
				ids[i] = src.ID.String()
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	sources, err := s.ListSources(t.Context())
	require.NoError(t, err)
	assert.Len(t, sources, 1)

	_, err = s.CreateSource(t.Context(), domain.Source{Key: "guardian"})
	assert.Error(t, err)
}

func TestUpsertArticleByURL(t *testing.T) {
	s := NewStore()
	newsapi := seedSource(t, s, "newsapi", "NewsAPI")
	guardian := seedSource(t, s, "guardian", "The Guardian")

	first := upsert(t, s, *newsapi, "https://example.com/a", "Old title")
	second := upsert(t, s, *guardian, "https://example.com/a", "New title")

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "New title", second.Title)
	assert.Equal(t, guardian.ID, second.SourceID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	page, err := s.QueryArticles(t.Context(), domain.ArticleFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestUpsertArticleByURL_ConcurrentSameURL(t *testing.T) {
	s := NewStore()
	src := seedSource(t, s, "newsapi", "NewsAPI")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpsertArticleByURL(t.Context(), domain.ArticleUpsert{
				SourceID:          src.ID,
				NormalizedArticle: domain.NormalizedArticle{URL: "https://example.com/race", Title: "t"},
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	page, err := s.QueryArticles(t.Context(), domain.ArticleFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestUpsertArticleByURL_PreservesInactiveFlag(t *testing.T) {
	s := NewStore()
	src := seedSource(t, s, "newsapi", "NewsAPI")

	a := upsert(t, s, *src, "https://example.com/hidden", "Hidden")
	s.SetActive(a.ID, false)
	upsert(t, s, *src, "https://example.com/hidden", "Hidden again")

	_, err := s.FindArticleByID(t.Context(), a.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestQueryArticles_Filters(t *testing.T) {
	s := NewStore()
	newsapi := seedSource(t, s, "newsapi", "NewsAPI")
	nyt := seedSource(t, s, "nytimes", "The New York Times")

	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }

	upsert(t, s, *newsapi, "https://e.com/1", "Climate summit opens", publishedAt(day(1)), func(a *domain.ArticleUpsert) {
		a.Category = domain.StringPtr("world")
		a.AuthorName = domain.StringPtr("Jane Roe")
	})
	upsert(t, s, *nyt, "https://e.com/2", "Markets", publishedAt(day(3)), func(a *domain.ArticleUpsert) {
		a.Description = domain.StringPtr("Climate risk priced in")
		a.Category = domain.StringPtr("business")
		a.AuthorName = domain.StringPtr("John Doe")
	})
	upsert(t, s, *nyt, "https://e.com/3", "Sports", publishedAt(day(5)))

	from, to := day(2), day(4)

	tests := []struct {
		name   string
		filter domain.ArticleFilter
		want   []string
	}{
		{name: "all newest first", filter: domain.ArticleFilter{}, want: []string{"https://e.com/3", "https://e.com/2", "https://e.com/1"}},
		{name: "ascending", filter: domain.ArticleFilter{Sort: domain.SortAsc}, want: []string{"https://e.com/1", "https://e.com/2", "https://e.com/3"}},
		{name: "search is case insensitive over text fields", filter: domain.ArticleFilter{SearchTerm: "CLIMATE"}, want: []string{"https://e.com/2", "https://e.com/1"}},
		{name: "date range", filter: domain.ArticleFilter{From: &from, To: &to}, want: []string{"https://e.com/2"}},
		{name: "category exact", filter: domain.ArticleFilter{Category: "world"}, want: []string{"https://e.com/1"}},
		{name: "source keys", filter: domain.ArticleFilter{SourceKeys: []string{"nytimes"}}, want: []string{"https://e.com/3", "https://e.com/2"}},
		{name: "author partial", filter: domain.ArticleFilter{Author: "doe"}, want: []string{"https://e.com/2"}},
		{name: "no match", filter: domain.ArticleFilter{SearchTerm: "quantum"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.QueryArticles(t.Context(), tt.filter)
			require.NoError(t, err)

			got := make([]string, 0, len(page.Items))
			for _, a := range page.Items {
				got = append(got, a.URL)
				require.NotNil(t, a.Source)
			}
			assert.Equal(t, tt.want, got)
			assert.EqualValues(t, len(tt.want), page.Total)
		})
	}
}

func TestQueryArticles_Pagination(t *testing.T) {
	s := NewStore()
	src := seedSource(t, s, "newsapi", "NewsAPI")
	for i := 1; i <= 5; i++ {
		upsert(t, s, *src, "https://e.com/"+string(rune('a'+i)), "t", publishedAt(time.Date(2024, 1, i, 0, 0, 0, 0, time.UTC)))
	}

	page, err := s.QueryArticles(t.Context(), domain.ArticleFilter{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), *page.Items[0].PublishedAt)

	page, err = s.QueryArticles(t.Context(), domain.ArticleFilter{Page: 9, PerPage: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestQueryArticles_HugePageIsEmpty(t *testing.T) {
	s := NewStore()
	src := seedSource(t, s, "guardian", "The Guardian")
	upsert(t, s, *src, "https://e.com/1", "One")

	page, err := s.QueryArticles(t.Context(), domain.ArticleFilter{Page: math.MaxInt, PerPage: 100})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 1, page.Total)

	page, err = s.Personalized(t.Context(), domain.EmptyPreferences(), math.MaxInt, 100)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestPaginate_NegativeStart(t *testing.T) {
	articles := []domain.Article{{Title: "a"}, {Title: "b"}}
	page := paginate(articles, -5, 1)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "a", page.Items[0].Title)
}

func TestPersonalized(t *testing.T) {
	s := NewStore()
	guardian := seedSource(t, s, "guardian", "The Guardian")
	nyt := seedSource(t, s, "nytimes", "The New York Times")

	upsert(t, s, *guardian, "https://e.com/g1", "g1", func(a *domain.ArticleUpsert) {
		a.Category = domain.StringPtr("Politics")
		a.AuthorName = domain.StringPtr("Larry Elliott")
	})
	upsert(t, s, *guardian, "https://e.com/g2", "g2", func(a *domain.ArticleUpsert) {
		a.Category = domain.StringPtr("Sport")
	})
	upsert(t, s, *nyt, "https://e.com/n1", "n1", func(a *domain.ArticleUpsert) {
		a.Category = domain.StringPtr("Politics")
		a.AuthorName = domain.StringPtr("Maggie Haberman")
	})

	urls := func(p domain.ArticlePage) []string {
		out := []string{}
		for _, a := range p.Items {
			out = append(out, a.URL)
		}
		return out
	}

	page, err := s.Personalized(t.Context(), domain.Preferences{Sources: []string{"The Guardian"}, Categories: []string{"Politics"}}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://e.com/g1"}, urls(page))

	page, err = s.Personalized(t.Context(), domain.Preferences{Sources: []string{"nytimes"}}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://e.com/n1"}, urls(page))

	page, err = s.Personalized(t.Context(), domain.Preferences{Authors: []string{"elliott", "haberman"}}, 1, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"https://e.com/g1", "https://e.com/n1"}, urls(page))

	page, err = s.Personalized(t.Context(), domain.EmptyPreferences(), 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
}

func TestFacetsAndSourceCounts(t *testing.T) {
	s := NewStore()
	src := seedSource(t, s, "guardian", "The Guardian")
	upsert(t, s, *src, "https://e.com/1", "1", func(a *domain.ArticleUpsert) {
		a.Category = domain.StringPtr("World")
		a.AuthorName = domain.StringPtr("B")
	})
	upsert(t, s, *src, "https://e.com/2", "2", func(a *domain.ArticleUpsert) {
		a.Category = domain.StringPtr("World")
		a.AuthorName = domain.StringPtr("A")
	})
	upsert(t, s, *src, "https://e.com/3", "3")

	categories, err := s.Categories(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"World"}, categories)

	authors, err := s.Authors(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, authors)

	withCount, err := s.FindSourceByID(t.Context(), src.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, withCount.ArticlesCount)
}

func TestPreferences(t *testing.T) {
	s := NewStore()

	_, err := s.GetPreferences(t.Context(), "u1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	prefs := domain.Preferences{Sources: []string{"guardian"}, Categories: []string{}, Authors: []string{}}
	require.NoError(t, s.SavePreferences(t.Context(), "u1", prefs))

	got, err := s.GetPreferences(t.Context(), "u1")
	require.NoError(t, err)
	assert.Equal(t, prefs, *got)

	require.NoError(t, s.DeletePreferences(t.Context(), "u1"))
	_, err = s.GetPreferences(t.Context(), "u1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
