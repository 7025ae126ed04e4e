package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
	Redis Type = "redis"
)

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("not found")

// SourceStore persists provider sources.
type SourceStore interface {
	FindSourceByKey(ctx context.Context, key string) (*domain.Source, error)
	FindSourceByID(ctx context.Context, id uuid.UUID) (*domain.SourceWithCount, error)
	ListSources(ctx context.Context) ([]domain.SourceWithCount, error)

	// CreateSource inserts a new source. It fails if the key is already taken.
	CreateSource(ctx context.Context, src domain.Source) (*domain.Source, error)

	// GetOrCreateSource returns the source stored under src.Key, inserting src
	// when absent. Concurrent callers observe a single row: the first writer wins.
	GetOrCreateSource(ctx context.Context, src domain.Source) (*domain.Source, error)

	// UpsertSource inserts src or refreshes the display metadata of the existing row.
	UpsertSource(ctx context.Context, src domain.Source) (*domain.Source, error)
}

// ArticleStore is the write side of the article store.
type ArticleStore interface {
	// UpsertArticleByURL atomically inserts the article or overwrites the
	// existing row with the same URL, reassigning its source.
	UpsertArticleByURL(ctx context.Context, article domain.ArticleUpsert) (*domain.Article, error)
}

// ArticleReader is the read side of the article store. Only active articles are returned.
type ArticleReader interface {
	QueryArticles(ctx context.Context, filter domain.ArticleFilter) (domain.ArticlePage, error)
	FindArticleByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	Categories(ctx context.Context) ([]string, error)
	Authors(ctx context.Context) ([]string, error)

	// Personalized returns the newest articles matching the preferences. Each
	// non-empty list narrows the feed; entries within a list are alternatives.
	// Sources match by key or name, authors match partially.
	Personalized(ctx context.Context, prefs domain.Preferences, page, perPage int) (domain.ArticlePage, error)
}

// PreferenceStore persists per-user preferences.
type PreferenceStore interface {
	GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error)
	SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error
	DeletePreferences(ctx context.Context, userID string) error
}

// Store bundles the source and article capabilities of one backend.
type Store interface {
	SourceStore
	ArticleStore
	ArticleReader
}
