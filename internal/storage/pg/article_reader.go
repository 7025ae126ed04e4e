package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

func (s *Store) QueryArticles(ctx context.Context, filter domain.ArticleFilter) (domain.ArticlePage, error) {
	filter.Normalize()
	slog.Debug("Executing pg article query",
		"search_query", filter.SearchTerm,
		"page", filter.Page,
		"per_page", filter.PerPage,
	)

	return s.page(ctx, filterWhere(filter), filter.Sort, filter.Page, filter.PerPage)
}

func (s *Store) Personalized(ctx context.Context, prefs domain.Preferences, page, perPage int) (domain.ArticlePage, error) {
	filter := domain.ArticleFilter{Page: page, PerPage: perPage}
	filter.Normalize()

	return s.page(ctx, preferencesWhere(prefs), domain.SortDesc, filter.Page, filter.PerPage)
}

func (s *Store) page(ctx context.Context, where *whereBuilder, sort domain.SortOrder, page, perPage int) (domain.ArticlePage, error) {
	var total int64
	countSQL := `SELECT count(*) FROM articles a JOIN sources s ON s.id = a.source_id` + where.sql()
	if err := s.db.QueryRow(ctx, countSQL, where.args...).Scan(&total); err != nil {
		return domain.ArticlePage{}, fmt.Errorf("failed to count articles: %w", err)
	}

	items := []domain.Article{}
	offset := (page - 1) * perPage
	if total > int64(offset) {
		args := append(append([]any{}, where.args...), perPage, offset)
		pageSQL := articleSelect + where.sql() + orderBy(sort) +
			fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

		rows, err := s.db.Query(ctx, pageSQL, args...)
		if err != nil {
			return domain.ArticlePage{}, fmt.Errorf("failed to query articles: %w", err)
		}
		items, err = pgx.CollectRows(rows, scanArticle)
		if err != nil {
			return domain.ArticlePage{}, fmt.Errorf("failed to scan articles: %w", err)
		}
	}

	return domain.ArticlePage{Items: items, Total: total}, nil
}

func (s *Store) FindArticleByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	rows, err := s.db.Query(ctx, articleSelect+` WHERE a.id = $1 AND a.is_active`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find article %s: %w", id, err)
	}
	a, err := pgx.CollectExactlyOneRow(rows, scanArticle)
	if err != nil {
		return nil, notFound(err, "failed to scan article %s", id)
	}
	return &a, nil
}

func (s *Store) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "category")
}

func (s *Store) Authors(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "author_name")
}

// distinct lists the non-empty values of a whitelisted text column.
func (s *Store) distinct(ctx context.Context, column string) ([]string, error) {
	sql := fmt.Sprintf(`
		SELECT DISTINCT %[1]s FROM articles
		WHERE is_active AND %[1]s IS NOT NULL AND %[1]s <> ''
		ORDER BY %[1]s`, column)

	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", column, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", column, err)
	}
	return values, nil
}
