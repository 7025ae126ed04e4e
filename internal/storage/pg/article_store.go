package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

const articleColumns = `a.id, a.source_id, a.source_article_id, a.title, a.description, a.content, a.url,
	a.url_to_image, a.published_at, a.author_name, a.category, a.raw, a.is_active, a.created_at, a.updated_at`

const articleSelect = `SELECT ` + articleColumns + `,
	s.id, s.key, s.name, s.base_url, s.meta, s.created_at, s.updated_at
	FROM articles a
	JOIN sources s ON s.id = a.source_id`

func articleFields(a *domain.Article, raw *[]byte) []any {
	return []any{
		&a.ID, &a.SourceID, &a.SourceArticleID, &a.Title, &a.Description, &a.Content, &a.URL,
		&a.URLToImage, &a.PublishedAt, &a.AuthorName, &a.Category, raw, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	}
}

func scanArticle(row pgx.CollectableRow) (domain.Article, error) {
	var a domain.Article
	var raw []byte
	src := &domain.Source{}

	dest := append(articleFields(&a, &raw),
		&src.ID, &src.Key, &src.Name, &src.BaseURL, &src.Meta, &src.CreatedAt, &src.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return domain.Article{}, err
	}

	a.Raw = raw
	a.Source = src
	return a, nil
}

func (s *Store) UpsertArticleByURL(ctx context.Context, in domain.ArticleUpsert) (*domain.Article, error) {
	var raw any
	if len(in.Raw) > 0 {
		raw = []byte(in.Raw)
	}

	// the conflict target is the only deduplication mechanism, racing writers converge on one row
	row := s.db.QueryRow(ctx, `
		INSERT INTO articles AS a (
			id, source_id, source_article_id, title, description, content, url,
			url_to_image, published_at, author_name, category, raw
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (url) DO UPDATE SET
			source_id = EXCLUDED.source_id,
			source_article_id = EXCLUDED.source_article_id,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			content = EXCLUDED.content,
			url_to_image = EXCLUDED.url_to_image,
			published_at = EXCLUDED.published_at,
			author_name = EXCLUDED.author_name,
			category = EXCLUDED.category,
			raw = EXCLUDED.raw,
			updated_at = now()
		RETURNING `+articleColumns,
		uuid.New(), in.SourceID, in.SourceArticleID, in.Title, in.Description, in.Content, in.URL,
		in.URLToImage, in.PublishedAt, in.AuthorName, in.Category, raw,
	)

	var a domain.Article
	var stored []byte
	if err := row.Scan(articleFields(&a, &stored)...); err != nil {
		return nil, fmt.Errorf("failed to upsert article %q: %w", in.URL, err)
	}
	a.Raw = stored

	return &a, nil
}
