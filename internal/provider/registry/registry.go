// Package registry builds the active provider set at startup.
package registry

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider/guardian"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider/newsapi"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider/nytimes"
)

// Constructor builds one provider from its settings.
type Constructor func(settings provider.Settings, opts ...provider.ClientOption) (provider.Fetcher, error)

// Constructors lists every known provider by source key.
var Constructors = map[string]Constructor{
	newsapi.SourceKey: func(s provider.Settings, opts ...provider.ClientOption) (provider.Fetcher, error) {
		return newsapi.New(s, opts...)
	},
	guardian.SourceKey: func(s provider.Settings, opts ...provider.ClientOption) (provider.Fetcher, error) {
		return guardian.New(s, opts...)
	},
	nytimes.SourceKey: func(s provider.Settings, opts ...provider.ClientOption) (provider.Fetcher, error) {
		return nytimes.New(s, opts...)
	},
}

// Keys returns the known provider keys in a stable order.
func Keys() []string {
	keys := make([]string, 0, len(Constructors))
	for k := range Constructors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Build constructs every known provider. Providers that fail to construct
// are logged and left out of the returned map.
func Build(settings map[string]provider.Settings, opts ...provider.ClientOption) map[string]provider.Fetcher {
	fetchers := make(map[string]provider.Fetcher, len(Constructors))

	for _, key := range Keys() {
		fetcher, err := Constructors[key](settings[key], opts...)
		if err != nil {
			var cfgErr *provider.ConfigError
			if errors.As(err, &cfgErr) {
				slog.Warn("Provider disabled: missing configuration", "source", key, "setting", cfgErr.Setting)
			} else {
				slog.Error("Provider disabled", "source", key, "error", err)
			}
			continue
		}
		fetchers[key] = fetcher
	}

	slog.Info("Providers ready", "active", len(fetchers), "known", len(Constructors))

	return fetchers
}
