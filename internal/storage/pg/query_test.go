package pg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

func TestFilterWhere(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	b := filterWhere(domain.ArticleFilter{
		SearchTerm: "50%_off",
		From:       &from,
		SourceKeys: []string{"guardian"},
		Author:     "doe",
	})

	assert.Equal(t,
		" WHERE a.is_active"+
			" AND (a.title ILIKE $1 OR a.description ILIKE $1 OR a.content ILIKE $1)"+
			" AND a.published_at >= $2"+
			" AND s.key = ANY($3)"+
			" AND a.author_name ILIKE $4",
		b.sql(),
	)
	assert.Equal(t, []any{`%50\%\_off%`, from, []string{"guardian"}, "%doe%"}, b.args)
}

func TestPreferencesWhere(t *testing.T) {
	b := preferencesWhere(domain.Preferences{
		Sources: []string{"The Guardian"},
		Authors: []string{"Jane", "John"},
	})

	assert.Equal(t,
		" WHERE a.is_active"+
			" AND (s.key = ANY($1) OR s.name = ANY($1))"+
			" AND a.author_name ILIKE ANY($2)",
		b.sql(),
	)
	assert.Equal(t, []any{[]string{"The Guardian"}, []string{"%Jane%", "%John%"}}, b.args)

	assert.Equal(t, " WHERE a.is_active", preferencesWhere(domain.EmptyPreferences()).sql())
}

func TestOrderBy(t *testing.T) {
	assert.Contains(t, orderBy(domain.SortAsc), "ASC NULLS LAST")
	assert.Contains(t, orderBy(domain.SortDesc), "DESC NULLS LAST")
	assert.Contains(t, orderBy(""), "DESC")
}
