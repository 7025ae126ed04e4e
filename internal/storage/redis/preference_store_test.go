//go:build integration

package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	pkgtesting "github.com/DjordjeVuckovic/news-aggregator/pkg/testing"
)

func TestPreferenceStore(t *testing.T) {
	ctx := context.Background()
	container := pkgtesting.NewRedisContainer(ctx, t)

	rdb := NewClient(ClientConfig{Addr: container.Addr})
	t.Cleanup(func() { _ = rdb.Close() })
	store := NewPreferenceStore(rdb)

	require.True(t, store.Healthy(ctx))

	_, err := store.GetPreferences(ctx, "user-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	prefs := domain.Preferences{
		Sources:    []string{"guardian"},
		Categories: []string{"technology", "business"},
		Authors:    []string{},
	}
	require.NoError(t, store.SavePreferences(ctx, "user-1", prefs))

	got, err := store.GetPreferences(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, prefs, *got)

	_, err = store.GetPreferences(ctx, "user-2")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.DeletePreferences(ctx, "user-1"))
	_, err = store.GetPreferences(ctx, "user-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.DeletePreferences(ctx, "user-1"))
}
