package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

func TestLoadEnv(t *testing.T) {
	t.Run("missing storage type", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "")
		_, err := LoadEnv()
		assert.Error(t, err)
	})

	t.Run("invalid storage type", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "mongo")
		_, err := LoadEnv()
		assert.Error(t, err)
	})

	t.Run("pg keeps preferences in pg", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "pg")
		t.Setenv("PREFERENCE_STORE", "")
		t.Setenv("PG_CONNECTION_STRING", "postgres://u:p@localhost:5432/news")
		t.Setenv("PG_MAX_CONNS", "8")

		cfg, err := LoadEnv()
		require.NoError(t, err)
		assert.Equal(t, storage.PG, cfg.Type)
		assert.Equal(t, storage.PG, cfg.Preferences)
		assert.EqualValues(t, 8, cfg.Pg.MaxConns)
		assert.Nil(t, cfg.Es)
	})

	t.Run("pg without connection string", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "pg")
		t.Setenv("PG_CONNECTION_STRING", "")
		_, err := LoadEnv()
		assert.Error(t, err)
	})

	t.Run("es defaults preferences to redis", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "es")
		t.Setenv("PREFERENCE_STORE", "")
		t.Setenv("ES_ADDRESSES", "http://localhost:9200, ")
		t.Setenv("ES_INDEX_NAME", "news")
		t.Setenv("REDIS_ADDR", "")

		cfg, err := LoadEnv()
		require.NoError(t, err)
		assert.Equal(t, []string{"http://localhost:9200"}, cfg.Es.Addresses)
		assert.Equal(t, storage.Redis, cfg.Preferences)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	})

	t.Run("es without index name", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "es")
		t.Setenv("ES_ADDRESSES", "http://localhost:9200")
		t.Setenv("ES_INDEX_NAME", "")
		_, err := LoadEnv()
		assert.Error(t, err)
	})

	t.Run("pg preferences need pg articles", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "in_mem")
		t.Setenv("PREFERENCE_STORE", "pg")
		_, err := LoadEnv()
		assert.Error(t, err)
	})
}
