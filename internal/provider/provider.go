// Package provider defines the contract between the aggregator and the
// external news APIs, and the HTTP plumbing the provider adapters share.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

// RawArticle is one untouched record as returned by a provider.
type RawArticle = json.RawMessage

// Fetcher is implemented by every provider adapter.
type Fetcher interface {
	// SourceKey returns the stable identifier of the provider, e.g. "newsapi".
	SourceKey() string

	// FetchArticles issues a single bounded call to the provider. It never
	// returns a Go error: failures are reported through Result.Err with an
	// empty article list.
	FetchArticles(ctx context.Context, params domain.FetchParams) Result

	// TransformArticle maps a provider record to the canonical fields.
	// Required fields are not validated here.
	TransformArticle(raw RawArticle) (domain.NormalizedArticle, error)
}

// Result is the outcome of a single provider call.
type Result struct {
	Articles []RawArticle
	Err      error
}

func Success(articles []RawArticle) Result {
	if articles == nil {
		articles = []RawArticle{}
	}
	return Result{Articles: articles}
}

func Failure(err error) Result {
	return Result{Articles: []RawArticle{}, Err: err}
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// ErrRequest marks transport level failures (timeouts, connection errors, cancellation).
var ErrRequest = errors.New("provider request failed")

// ConfigError is returned when a provider cannot be constructed from its configuration.
type ConfigError struct {
	Provider string
	Setting  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s is not configured: set %s", e.Provider, e.Setting)
}

// StatusError is returned for non-2xx provider responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.Code)
	}
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.Code, e.Body)
}

// Settings configures one provider adapter.
type Settings struct {
	APIKey  string
	BaseURL string
	// RateLimit is the number of outbound requests per second; zero disables limiting.
	RateLimit float64
	Burst     int
}

// ClientOptions translates the settings into client options.
func (s Settings) ClientOptions() []ClientOption {
	if s.RateLimit <= 0 {
		return nil
	}
	return []ClientOption{WithRateLimit(s.RateLimit, s.Burst)}
}
