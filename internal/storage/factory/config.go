package factory

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/es"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/pg"
	redisstore "github.com/DjordjeVuckovic/news-aggregator/internal/storage/redis"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/utils"
)

type StorageConfig struct {
	storage.Type
	// Preferences selects the preference backend.
	Preferences storage.Type
	Pg          *pg.PoolConfig
	Es          *es.ClientConfig
	Redis       *redisstore.ClientConfig
}

var articleBackends = []storage.Type{storage.ES, storage.PG, storage.InMem}

var preferenceBackends = []storage.Type{storage.PG, storage.InMem, storage.Redis}

func LoadEnv() (*StorageConfig, error) {
	storageType := (storage.Type)(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Error("STORAGE_TYPE environment variable is not set")
		return nil, fmt.Errorf("STORAGE_TYPE environment variable is not set")
	}
	if !contains(articleBackends, storageType) {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType, articleBackends)
	}

	prefType := (storage.Type)(os.Getenv("PREFERENCE_STORE"))
	if prefType == "" {
		prefType = defaultPreferenceStore(storageType)
	}
	if !contains(preferenceBackends, prefType) {
		slog.Error("Invalid PREFERENCE_STORE environment variable value", "value", prefType)
		return nil, fmt.Errorf(
			"invalid PREFERENCE_STORE environment variable value: %s, expected one of %v",
			prefType, preferenceBackends)
	}
	if prefType == storage.PG && storageType != storage.PG {
		return nil, fmt.Errorf("PREFERENCE_STORE=pg requires STORAGE_TYPE=pg")
	}

	cfg := &StorageConfig{
		Type:        storageType,
		Preferences: prefType,
	}

	if storageType == storage.ES {
		cfg.Es = &es.ClientConfig{
			Addresses: utils.SplitList(os.Getenv("ES_ADDRESSES")),
			IndexName: os.Getenv("ES_INDEX_NAME"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		}
		if len(cfg.Es.Addresses) == 0 || cfg.Es.IndexName == "" {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", cfg.Es.Addresses, "indexName", cfg.Es.IndexName)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: addresses or index name is missing")
		}
	}

	if storageType == storage.PG {
		cfg.Pg = &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if cfg.Pg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
		if v := os.Getenv("PG_MAX_CONNS"); v != "" {
			n, err := strconv.ParseInt(v, 10, 32)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid PG_MAX_CONNS value: %s", v)
			}
			cfg.Pg.MaxConns = int32(n)
		}
	}

	if prefType == storage.Redis {
		cfg.Redis = &redisstore.ClientConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		}
		if cfg.Redis.Addr == "" {
			cfg.Redis.Addr = "localhost:6379"
		}
		if v := os.Getenv("REDIS_DB"); v != "" {
			db, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("invalid REDIS_DB value: %s", v)
			}
			cfg.Redis.DB = db
		}
	}

	return cfg, nil
}

// defaultPreferenceStore keeps preferences next to the articles when the
// article backend can hold them.
func defaultPreferenceStore(t storage.Type) storage.Type {
	if t == storage.ES {
		return storage.Redis
	}
	return t
}

func contains(types []storage.Type, t storage.Type) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
