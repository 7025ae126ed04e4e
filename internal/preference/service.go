// Package preference manages per-user feed preferences.
package preference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

const (
	maxEntryLen  = 150
	maxListItems = 100
)

type Service struct {
	store storage.PreferenceStore
}

func NewService(store storage.PreferenceStore) *Service {
	return &Service{store: store}
}

// Get returns the user's preferences, or empty lists when none are saved.
func (s *Service) Get(ctx context.Context, userID string) (domain.Preferences, error) {
	prefs, err := s.store.GetPreferences(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.EmptyPreferences(), nil
	}
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	return withEmptyLists(*prefs), nil
}

func (s *Service) Update(ctx context.Context, userID string, prefs domain.Preferences) (domain.Preferences, error) {
	prefs, err := Validate(prefs)
	if err != nil {
		return domain.Preferences{}, err
	}
	if err := s.store.SavePreferences(ctx, userID, prefs); err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to save preferences: %w", err)
	}
	return prefs, nil
}

func (s *Service) Reset(ctx context.Context, userID string) error {
	if err := s.store.DeletePreferences(ctx, userID); err != nil {
		return fmt.Errorf("failed to reset preferences: %w", err)
	}
	return nil
}

// Validate trims every entry and rejects empty or oversized ones.
func Validate(prefs domain.Preferences) (domain.Preferences, error) {
	lists := []struct {
		name  string
		items *[]string
	}{
		{"sources", &prefs.Sources},
		{"categories", &prefs.Categories},
		{"authors", &prefs.Authors},
	}

	for _, l := range lists {
		if len(*l.items) > maxListItems {
			return domain.Preferences{}, apperr.NewValidation(fmt.Sprintf("%s must not contain more than %d entries", l.name, maxListItems))
		}
		cleaned := make([]string, 0, len(*l.items))
		for i, item := range *l.items {
			item = strings.TrimSpace(item)
			if item == "" {
				return domain.Preferences{}, apperr.NewValidation(fmt.Sprintf("%s[%d] must not be empty", l.name, i))
			}
			if utf8.RuneCountInString(item) > maxEntryLen {
				return domain.Preferences{}, apperr.NewValidation(fmt.Sprintf("%s[%d] must not exceed %d characters", l.name, i, maxEntryLen))
			}
			cleaned = append(cleaned, item)
		}
		*l.items = cleaned
	}

	return prefs, nil
}

func withEmptyLists(p domain.Preferences) domain.Preferences {
	if p.Sources == nil {
		p.Sources = []string{}
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if p.Authors == nil {
		p.Authors = []string{}
	}
	return p
}
