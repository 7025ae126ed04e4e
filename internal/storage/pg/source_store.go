package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

const sourceColumns = `id, key, name, base_url, meta, created_at, updated_at`

func scanSource(row pgx.Row) (domain.Source, error) {
	var src domain.Source
	err := row.Scan(&src.ID, &src.Key, &src.Name, &src.BaseURL, &src.Meta, &src.CreatedAt, &src.UpdatedAt)
	return src, err
}

func (s *Store) FindSourceByKey(ctx context.Context, key string) (*domain.Source, error) {
	row := s.db.QueryRow(ctx, `SELECT `+sourceColumns+` FROM sources WHERE key = $1`, key)
	src, err := scanSource(row)
	if err != nil {
		return nil, notFound(err, "failed to find source %q", key)
	}
	return &src, nil
}

func (s *Store) CreateSource(ctx context.Context, in domain.Source) (*domain.Source, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO sources (id, key, name, base_url, meta)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+sourceColumns,
		uuid.New(), in.Key, in.Name, in.BaseURL, in.Meta,
	)
	src, err := scanSource(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create source %q: %w", in.Key, err)
	}
	return &src, nil
}

func (s *Store) GetOrCreateSource(ctx context.Context, in domain.Source) (*domain.Source, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO sources (id, key, name, base_url, meta)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO NOTHING
		RETURNING `+sourceColumns,
		uuid.New(), in.Key, in.Name, in.BaseURL, in.Meta,
	)
	src, err := scanSource(row)
	if err == nil {
		return &src, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to create source %q: %w", in.Key, err)
	}

	// lost the race or already present
	return s.FindSourceByKey(ctx, in.Key)
}

func (s *Store) UpsertSource(ctx context.Context, in domain.Source) (*domain.Source, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO sources (id, key, name, base_url, meta)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE SET
			name = EXCLUDED.name,
			base_url = EXCLUDED.base_url,
			meta = EXCLUDED.meta,
			updated_at = now()
		RETURNING `+sourceColumns,
		uuid.New(), in.Key, in.Name, in.BaseURL, in.Meta,
	)
	src, err := scanSource(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert source %q: %w", in.Key, err)
	}
	return &src, nil
}

const sourceWithCountSQL = `
	SELECT s.id, s.key, s.name, s.base_url, s.meta, s.created_at, s.updated_at,
	       count(a.id) FILTER (WHERE a.is_active) AS articles_count
	FROM sources s
	LEFT JOIN articles a ON a.source_id = s.id`

func scanSourceWithCount(row pgx.CollectableRow) (domain.SourceWithCount, error) {
	var out domain.SourceWithCount
	err := row.Scan(
		&out.ID, &out.Key, &out.Name, &out.BaseURL, &out.Meta, &out.CreatedAt, &out.UpdatedAt,
		&out.ArticlesCount,
	)
	return out, err
}

func (s *Store) ListSources(ctx context.Context) ([]domain.SourceWithCount, error) {
	rows, err := s.db.Query(ctx, sourceWithCountSQL+` GROUP BY s.id ORDER BY s.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	sources, err := pgx.CollectRows(rows, scanSourceWithCount)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sources: %w", err)
	}
	return sources, nil
}

func (s *Store) FindSourceByID(ctx context.Context, id uuid.UUID) (*domain.SourceWithCount, error) {
	rows, err := s.db.Query(ctx, sourceWithCountSQL+` WHERE s.id = $1 GROUP BY s.id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find source %s: %w", id, err)
	}
	src, err := pgx.CollectExactlyOneRow(rows, scanSourceWithCount)
	if err != nil {
		return nil, notFound(err, "failed to scan source %s", id)
	}
	return &src, nil
}
