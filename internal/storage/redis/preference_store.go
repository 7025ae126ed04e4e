package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

// PreferenceStore keeps user preferences as JSON values, one key per user.
type PreferenceStore struct {
	rdb *goredis.Client
}

func NewPreferenceStore(rdb *goredis.Client) *PreferenceStore {
	return &PreferenceStore{rdb: rdb}
}

func preferencesKey(userID string) string {
	return fmt.Sprintf("news:preferences:%s", userID)
}

func (s *PreferenceStore) GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	b, err := s.rdb.Get(ctx, preferencesKey(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences of %s: %w", userID, err)
	}

	var prefs domain.Preferences
	if err := json.Unmarshal(b, &prefs); err != nil {
		return nil, fmt.Errorf("failed to decode preferences of %s: %w", userID, err)
	}
	return &prefs, nil
}

func (s *PreferenceStore) SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	b, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, preferencesKey(userID), b, 0).Err(); err != nil {
		return fmt.Errorf("failed to save preferences of %s: %w", userID, err)
	}
	return nil
}

func (s *PreferenceStore) DeletePreferences(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, preferencesKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete preferences of %s: %w", userID, err)
	}
	return nil
}

func (s *PreferenceStore) Healthy(ctx context.Context) bool {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis health check failed", "error", err)
		return false
	}
	return true
}

var _ storage.PreferenceStore = (*PreferenceStore)(nil)
