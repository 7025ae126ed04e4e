// Package config reads the aggregator settings from the environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/DjordjeVuckovic/news-aggregator/internal/events"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider/guardian"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider/newsapi"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider/nytimes"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/utils"
)

type FetchConfig struct {
	Interval     time.Duration
	RunOnStart   bool
	Enabled      bool
	Concurrency  int
	StoreTimeout time.Duration
}

type AuthConfig struct {
	JWTSecret string
}

type Config struct {
	LogLevel  string
	Providers map[string]provider.Settings
	Fetch     FetchConfig
	Auth      AuthConfig
	// Kafka is nil when no brokers are configured.
	Kafka *events.KafkaConfig
}

type providerVars struct {
	apiKey     string
	baseURL    string
	defaultURL string
	rateLimit  string
	burst      string
}

func varsFor(prefix, apiKey, defaultURL string) providerVars {
	return providerVars{
		apiKey:     apiKey,
		baseURL:    prefix + "_BASE_URL",
		defaultURL: defaultURL,
		rateLimit:  prefix + "_RATE_LIMIT",
		burst:      prefix + "_BURST",
	}
}

// providerEnv names the environment variables of each provider.
var providerEnv = map[string]providerVars{
	newsapi.SourceKey:  varsFor("NEWSAPI", "NEWSAPI_KEY", newsapi.DefaultBaseURL),
	guardian.SourceKey: varsFor("GUARDIAN", "GUARDIAN_API_KEY", guardian.DefaultBaseURL),
	nytimes.SourceKey:  varsFor("NYT", "NYT_API_KEY", nytimes.DefaultBaseURL),
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")

	for _, vars := range providerEnv {
		v.SetDefault(vars.apiKey, "")
		v.SetDefault(vars.baseURL, vars.defaultURL)
		v.SetDefault(vars.rateLimit, 0)
		v.SetDefault(vars.burst, 1)
	}

	v.SetDefault("FETCH_ENABLED", true)
	v.SetDefault("FETCH_INTERVAL", time.Hour)
	v.SetDefault("FETCH_ON_START", false)
	v.SetDefault("FETCH_CONCURRENCY", 3)
	v.SetDefault("STORE_TIMEOUT", 10*time.Second)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "articles.stored")
}

// Load reads settings from the environment. A non-empty configFile is read
// first; environment variables take precedence over its values.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("error reading config %s: %w", configFile, err)
			}
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		LogLevel:  strings.ToLower(v.GetString("LOG_LEVEL")),
		Providers: make(map[string]provider.Settings, len(providerEnv)),
		Fetch: FetchConfig{
			Interval:     v.GetDuration("FETCH_INTERVAL"),
			RunOnStart:   v.GetBool("FETCH_ON_START"),
			Enabled:      v.GetBool("FETCH_ENABLED"),
			Concurrency:  v.GetInt("FETCH_CONCURRENCY"),
			StoreTimeout: v.GetDuration("STORE_TIMEOUT"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
	}

	for key, vars := range providerEnv {
		cfg.Providers[key] = provider.Settings{
			APIKey:    v.GetString(vars.apiKey),
			BaseURL:   v.GetString(vars.baseURL),
			RateLimit: v.GetFloat64(vars.rateLimit),
			Burst:     v.GetInt(vars.burst),
		}
	}

	if brokers := utils.SplitList(v.GetString("KAFKA_BROKERS")); len(brokers) > 0 {
		cfg.Kafka = &events.KafkaConfig{
			Brokers: brokers,
			Topic:   v.GetString("KAFKA_TOPIC"),
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Fetch.Interval <= 0 {
		return fmt.Errorf("FETCH_INTERVAL must be positive, got %s", c.Fetch.Interval)
	}
	if c.Fetch.Concurrency < 1 {
		return fmt.Errorf("FETCH_CONCURRENCY must be at least 1, got %d", c.Fetch.Concurrency)
	}
	if c.Fetch.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.Fetch.StoreTimeout)
	}
	return nil
}
