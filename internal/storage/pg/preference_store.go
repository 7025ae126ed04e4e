package pg

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

func (s *Store) GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	var p domain.Preferences
	err := s.db.QueryRow(ctx,
		`SELECT sources, categories, authors FROM user_preferences WHERE user_id = $1`,
		userID,
	).Scan(&p.Sources, &p.Categories, &p.Authors)
	if err != nil {
		return nil, notFound(err, "failed to get preferences")
	}
	return &p, nil
}

func (s *Store) SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_preferences (user_id, sources, categories, authors, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE SET
			sources = EXCLUDED.sources,
			categories = EXCLUDED.categories,
			authors = EXCLUDED.authors,
			updated_at = now()`,
		userID, nonNil(prefs.Sources), nonNil(prefs.Categories), nonNil(prefs.Authors),
	)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

func (s *Store) DeletePreferences(ctx context.Context, userID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete preferences: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
