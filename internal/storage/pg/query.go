package pg

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

// whereBuilder collects AND-ed conditions and their positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

// arg registers v and returns its placeholder.
func (b *whereBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *whereBuilder) add(cond string) {
	b.conds = append(b.conds, cond)
}

func (b *whereBuilder) sql() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func filterWhere(f domain.ArticleFilter) *whereBuilder {
	b := &whereBuilder{}
	b.add("a.is_active")

	if f.SearchTerm != "" {
		p := b.arg(containsPattern(f.SearchTerm))
		b.add(fmt.Sprintf("(a.title ILIKE %[1]s OR a.description ILIKE %[1]s OR a.content ILIKE %[1]s)", p))
	}
	if f.From != nil {
		b.add("a.published_at >= " + b.arg(*f.From))
	}
	if f.To != nil {
		b.add("a.published_at <= " + b.arg(*f.To))
	}
	if f.Category != "" {
		b.add("a.category = " + b.arg(f.Category))
	}
	if len(f.SourceKeys) > 0 {
		b.add("s.key = ANY(" + b.arg(f.SourceKeys) + ")")
	}
	if f.Author != "" {
		b.add("a.author_name ILIKE " + b.arg(containsPattern(f.Author)))
	}

	return b
}

func preferencesWhere(p domain.Preferences) *whereBuilder {
	b := &whereBuilder{}
	b.add("a.is_active")

	if len(p.Sources) > 0 {
		arg := b.arg(p.Sources)
		b.add(fmt.Sprintf("(s.key = ANY(%[1]s) OR s.name = ANY(%[1]s))", arg))
	}
	if len(p.Categories) > 0 {
		b.add("a.category = ANY(" + b.arg(p.Categories) + ")")
	}
	if len(p.Authors) > 0 {
		patterns := make([]string, 0, len(p.Authors))
		for _, author := range p.Authors {
			patterns = append(patterns, containsPattern(author))
		}
		b.add("a.author_name ILIKE ANY(" + b.arg(patterns) + ")")
	}

	return b
}

func orderBy(sort domain.SortOrder) string {
	if sort == domain.SortAsc {
		return " ORDER BY a.published_at ASC NULLS LAST, a.id ASC"
	}
	return " ORDER BY a.published_at DESC NULLS LAST, a.id DESC"
}
