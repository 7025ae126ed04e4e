//go:build integration

package pg

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	pkgtesting "github.com/DjordjeVuckovic/news-aggregator/pkg/testing"
)

var (
	testCtx   context.Context
	testPool  *ConnectionPool
	testStore *Store
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.DefaultPGConfig)
	if err != nil {
		panic(err)
	}

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		panic(err)
	}
	testStore = NewStore(testPool)

	code := m.Run()

	testPool.Close()
	_ = testcontainers.TerminateContainer(pg.Container)
	os.Exit(code)
}

func truncateTables(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE articles, sources, user_preferences CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func createSource(t *testing.T, key, name string) *domain.Source {
	t.Helper()
	src, err := testStore.GetOrCreateSource(testCtx, domain.Source{Key: key, Name: name})
	require.NoError(t, err)
	return src
}

func upsertArticle(t *testing.T, src *domain.Source, n domain.NormalizedArticle) *domain.Article {
	t.Helper()
	a, err := testStore.UpsertArticleByURL(testCtx, domain.ArticleUpsert{SourceID: src.ID, NormalizedArticle: n})
	require.NoError(t, err)
	return a
}

func TestHealthChecker(t *testing.T) {
	assert.True(t, NewHealthChecker(testPool).Healthy(testCtx))
}

func TestGetOrCreateSource_Concurrent(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	var wg sync.WaitGroup
	ids := make(chan uuid.UUID, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src, err := testStore.GetOrCreateSource(testCtx, domain.Source{
				Key:  "guardian",
				Name: "The Guardian",
				Meta: domain.SourceMeta{Website: "https://www.theguardian.com"},
			})
			if assert.NoError(t, err) {
				ids <- src.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	var first uuid.UUID
	for id := range ids {
		if first == uuid.Nil {
			first = id
		}
		assert.Equal(t, first, id)
	}

	src, err := testStore.FindSourceByKey(testCtx, "guardian")
	require.NoError(t, err)
	assert.Equal(t, "https://www.theguardian.com", src.Meta.Website)

	_, err = testStore.FindSourceByKey(testCtx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpsertSource_RefreshesMetadata(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	created := createSource(t, "newsapi", "Newsapi")
	updated, err := testStore.UpsertSource(testCtx, domain.Source{Key: "newsapi", Name: "NewsAPI", BaseURL: "https://newsapi.org/v2"})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "NewsAPI", updated.Name)
	assert.Equal(t, "https://newsapi.org/v2", updated.BaseURL)
}

func TestUpsertArticleByURL(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	newsapi := createSource(t, "newsapi", "NewsAPI")
	nyt := createSource(t, "nytimes", "The New York Times")

	raw := json.RawMessage(`{"title":"v1"}`)
	first := upsertArticle(t, newsapi, domain.NormalizedArticle{
		URL:        "https://e.com/a",
		Title:      "v1",
		AuthorName: domain.StringPtr("Jane"),
		Raw:        raw,
	})
	second := upsertArticle(t, nyt, domain.NormalizedArticle{
		URL:   "https://e.com/a",
		Title: "v2",
	})

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, nyt.ID, second.SourceID)
	assert.Equal(t, "v2", second.Title)
	assert.Nil(t, second.AuthorName)
	assert.True(t, second.IsActive)
	assert.JSONEq(t, `{"title":"v1"}`, string(first.Raw))

	var count int
	require.NoError(t, testPool.GetConn().QueryRow(testCtx, "SELECT count(*) FROM articles").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUpsertArticleByURL_KeepsInactiveFlag(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	src := createSource(t, "newsapi", "NewsAPI")
	a := upsertArticle(t, src, domain.NormalizedArticle{URL: "https://e.com/hidden", Title: "hidden"})

	_, err := testPool.GetConn().Exec(testCtx, "UPDATE articles SET is_active = false WHERE id = $1", a.ID)
	require.NoError(t, err)

	again := upsertArticle(t, src, domain.NormalizedArticle{URL: "https://e.com/hidden", Title: "hidden again"})
	assert.False(t, again.IsActive)

	_, err = testStore.FindArticleByID(testCtx, a.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpsertArticleByURL_ConcurrentSameURL(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	src := createSource(t, "guardian", "The Guardian")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := testStore.UpsertArticleByURL(testCtx, domain.ArticleUpsert{
				SourceID:          src.ID,
				NormalizedArticle: domain.NormalizedArticle{URL: "https://e.com/race", Title: "race"},
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	page, err := testStore.QueryArticles(testCtx, domain.ArticleFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestQueryArticles(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	guardian := createSource(t, "guardian", "The Guardian")
	nyt := createSource(t, "nytimes", "The New York Times")
	day := func(d int) *time.Time {
		ts := time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC)
		return &ts
	}

	upsertArticle(t, guardian, domain.NormalizedArticle{
		URL: "https://e.com/1", Title: "Climate summit", PublishedAt: day(1),
		Category: domain.StringPtr("Environment"), AuthorName: domain.StringPtr("Fiona Harvey"),
	})
	upsertArticle(t, nyt, domain.NormalizedArticle{
		URL: "https://e.com/2", Title: "Markets", PublishedAt: day(3),
		Description: domain.StringPtr("100% climate risk"), Category: domain.StringPtr("Business"),
	})
	upsertArticle(t, nyt, domain.NormalizedArticle{URL: "https://e.com/3", Title: "Undated"})

	tests := []struct {
		name   string
		filter domain.ArticleFilter
		want   []string
	}{
		{name: "newest first with undated last", filter: domain.ArticleFilter{}, want: []string{"https://e.com/2", "https://e.com/1", "https://e.com/3"}},
		{name: "search term ilike", filter: domain.ArticleFilter{SearchTerm: "CLIMATE"}, want: []string{"https://e.com/2", "https://e.com/1"}},
		{name: "percent is literal", filter: domain.ArticleFilter{SearchTerm: "100%"}, want: []string{"https://e.com/2"}},
		{name: "date range", filter: domain.ArticleFilter{From: day(2), To: day(4)}, want: []string{"https://e.com/2"}},
		{name: "category", filter: domain.ArticleFilter{Category: "Environment"}, want: []string{"https://e.com/1"}},
		{name: "source keys", filter: domain.ArticleFilter{SourceKeys: []string{"guardian"}}, want: []string{"https://e.com/1"}},
		{name: "author partial", filter: domain.ArticleFilter{Author: "harv"}, want: []string{"https://e.com/1"}},
		{name: "ascending", filter: domain.ArticleFilter{Sort: domain.SortAsc}, want: []string{"https://e.com/1", "https://e.com/2", "https://e.com/3"}},
		{name: "second page", filter: domain.ArticleFilter{Page: 2, PerPage: 2}, want: []string{"https://e.com/3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := testStore.QueryArticles(testCtx, tt.filter)
			require.NoError(t, err)

			got := []string{}
			for _, a := range page.Items {
				got = append(got, a.URL)
				require.NotNil(t, a.Source)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	categories, err := testStore.Categories(testCtx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Business", "Environment"}, categories)

	authors, err := testStore.Authors(testCtx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiona Harvey"}, authors)

	sources, err := testStore.ListSources(testCtx)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "The Guardian", sources[0].Name)
	assert.EqualValues(t, 1, sources[0].ArticlesCount)
	assert.EqualValues(t, 2, sources[1].ArticlesCount)
}

func TestPersonalized(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	guardian := createSource(t, "guardian", "The Guardian")
	nyt := createSource(t, "nytimes", "The New York Times")

	upsertArticle(t, guardian, domain.NormalizedArticle{URL: "https://e.com/g", Title: "g", Category: domain.StringPtr("Politics"), AuthorName: domain.StringPtr("Larry Elliott")})
	upsertArticle(t, nyt, domain.NormalizedArticle{URL: "https://e.com/n", Title: "n", Category: domain.StringPtr("Politics"), AuthorName: domain.StringPtr("Maggie Haberman")})

	page, err := testStore.Personalized(testCtx, domain.Preferences{Sources: []string{"The Guardian"}}, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, "https://e.com/g", page.Items[0].URL)

	page, err = testStore.Personalized(testCtx, domain.Preferences{Categories: []string{"Politics"}, Authors: []string{"haberman"}}, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, "https://e.com/n", page.Items[0].URL)
}

func TestPreferences(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	_, err := testStore.GetPreferences(testCtx, "user-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, testStore.SavePreferences(testCtx, "user-1", domain.Preferences{Sources: []string{"guardian"}}))
	require.NoError(t, testStore.SavePreferences(testCtx, "user-1", domain.Preferences{Authors: []string{"Jane"}}))

	got, err := testStore.GetPreferences(testCtx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.Preferences{Sources: []string{}, Categories: []string{}, Authors: []string{"Jane"}}, *got)

	require.NoError(t, testStore.DeletePreferences(testCtx, "user-1"))
	_, err = testStore.GetPreferences(testCtx, "user-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
