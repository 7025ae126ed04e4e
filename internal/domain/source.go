package domain

import (
	"time"

	"github.com/google/uuid"
)

// Source is a news provider as persisted by the system.
type Source struct {
	ID        uuid.UUID  `json:"id"`
	Key       string     `json:"key"`
	Name      string     `json:"name"`
	BaseURL   string     `json:"base_url,omitempty"`
	Meta      SourceMeta `json:"meta"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type SourceMeta struct {
	Description string `json:"description,omitempty" yaml:"description"`
	Website     string `json:"website,omitempty" yaml:"website"`
}

// SourceWithCount is a source together with the number of its stored articles.
type SourceWithCount struct {
	Source
	ArticlesCount int64 `json:"articles_count"`
}
