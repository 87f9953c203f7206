package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-editor/quill/internal/adapters/driven/storage/memory"
	"github.com/quill-editor/quill/internal/core/domain"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSettingsService_Get_StoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set(domain.KeyRemoteAPIPath, "/wp-json/wp/v2"))
	require.NoError(t, store.Set(domain.KeySyncPerPage, int64(20)))
	require.NoError(t, store.Set(domain.KeyRemoteTimeoutSeconds, "soon"))
	require.NoError(t, store.Set(domain.KeyGoalsDailyWords, int64(0)))
	require.NoError(t, store.Set(domain.KeyLogVerbose, true))

	settings, err := NewSettingsService(store).Get()
	require.NoError(t, err)
	assert.Equal(t, "/wp-json/wp/v2", settings.Remote.APIPath)
	assert.Equal(t, 20, settings.Sync.PerPage)
	assert.Zero(t, settings.Goals.DailyWords, "an explicit zero is kept")
	assert.True(t, settings.Verbose)
	assert.Equal(t, 30, settings.Remote.TimeoutSeconds, "a value of the wrong type falls back")
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		stored  any
		display string
	}{
		{domain.KeyRemoteAPIPath, "/wp-json/wp/v2", "/wp-json/wp/v2", "/wp-json/wp/v2"},
		{domain.KeyRemoteTimeoutSeconds, "10", 10, "10"},
		{domain.KeySyncPerPage, " 100 ", 100, "100"},
		{domain.KeyGoalsDailyWords, "0", 0, "0"},
		{domain.KeySecretsBackend, "keychain", "keychain", "keychain"},
		{domain.KeyLogVerbose, "TRUE", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			store := memory.NewConfigStore()
			svc := NewSettingsService(store)

			require.NoError(t, svc.Set(tt.key, tt.value))
			got, ok := store.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.stored, got)

			value, err := svc.Value(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.display, value)
		})
	}
}

func TestSettingsService_Set_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "editor.theme", "dark"},
		{"not a number", domain.KeySyncPerPage, "lots"},
		{"out of range", domain.KeySyncPerPage, "500"},
		{"negative goal", domain.KeyGoalsDailyWords, "-5"},
		{"not a bool", domain.KeyLogVerbose, "maybe"},
		{"bad backend", domain.KeySecretsBackend, "vault"},
		{"relative api path", domain.KeyRemoteAPIPath, "wp-json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			err := NewSettingsService(store).Set(tt.key, tt.value)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			_, ok := store.Get(tt.key)
			assert.False(t, ok, "nothing is written for an invalid value")
		})
	}
}

func TestSettingsService_Value_Unknown(t *testing.T) {
	_, err := NewSettingsService(memory.NewConfigStore()).Value("nope")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Reset(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)
	require.NoError(t, svc.Set(domain.KeyGoalsDailyWords, "0"))

	require.NoError(t, svc.Reset(domain.KeyGoalsDailyWords))
	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings().Goals.DailyWords, settings.Goals.DailyWords)

	require.NoError(t, svc.Reset(domain.KeyGoalsDailyWords), "resetting twice is fine")
	assert.ErrorIs(t, svc.Reset("editor.theme"), domain.ErrInvalidInput)
}
