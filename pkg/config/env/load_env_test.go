package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NEWS_TEST_FROM_DOTENV=loaded\n"), 0o600))
	t.Setenv("ENV_PATH", "")
	t.Setenv("NEWS_TEST_FROM_DOTENV", "")
	require.NoError(t, os.Unsetenv("NEWS_TEST_FROM_DOTENV"))

	require.NoError(t, LoadDotEnv("local", path))
	assert.Equal(t, "loaded", os.Getenv("NEWS_TEST_FROM_DOTENV"))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	t.Setenv("ENV_PATH", "")
	missing := filepath.Join(t.TempDir(), "nope.env")

	assert.Error(t, LoadDotEnv("local", missing))
	assert.NoError(t, LoadDotEnv("production", missing))
}

func TestLoadDotEnv_EnvPathOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.env")
	require.NoError(t, os.WriteFile(path, []byte("NEWS_TEST_OVERRIDE=yes\n"), 0o600))
	t.Setenv("ENV_PATH", path)
	t.Setenv("NEWS_TEST_OVERRIDE", "")
	require.NoError(t, os.Unsetenv("NEWS_TEST_OVERRIDE"))

	require.NoError(t, LoadDotEnv("local", "does-not-exist.env"))
	assert.Equal(t, "yes", os.Getenv("NEWS_TEST_OVERRIDE"))
}
