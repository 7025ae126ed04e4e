package preference

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/in_mem"
)

func TestService_GetDefaultsToEmptyLists(t *testing.T) {
	svc := NewService(in_mem.NewStore())

	prefs, err := svc.Get(t.Context(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, domain.EmptyPreferences(), prefs)
	assert.NotNil(t, prefs.Sources)
}

func TestService_UpdateAndReset(t *testing.T) {
	svc := NewService(in_mem.NewStore())

	saved, err := svc.Update(t.Context(), "user-1", domain.Preferences{
		Sources:    []string{" The Guardian "},
		Categories: []string{"Technology"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"The Guardian"}, saved.Sources)
	assert.Equal(t, []string{}, saved.Authors)

	got, err := svc.Get(t.Context(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	other, err := svc.Get(t.Context(), "user-2")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())

	require.NoError(t, svc.Reset(t.Context(), "user-1"))
	got, err = svc.Get(t.Context(), "user-1")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		prefs domain.Preferences
	}{
		{name: "empty entry", prefs: domain.Preferences{Authors: []string{"  "}}},
		{name: "too long", prefs: domain.Preferences{Sources: []string{strings.Repeat("x", 151)}}},
		{name: "too many", prefs: domain.Preferences{Categories: make([]string, 101)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.prefs)

			var ve *apperr.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}

	_, err := Validate(domain.Preferences{Sources: []string{strings.Repeat("x", 150)}})
	assert.NoError(t, err)
}
