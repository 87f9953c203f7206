package domain

import (
	"fmt"
	"runtime"
	"strings"
)

// Configuration keys as written in config.toml.
const (
	KeyRemoteAPIPath           = "remote.api_path"
	KeyRemoteTimeoutSeconds    = "remote.timeout_seconds"
	KeyRemoteRequestsPerSecond = "remote.requests_per_second"
	KeyRemoteMaxResponseBytes  = "remote.max_response_bytes"
	KeySyncPerPage             = "sync.per_page"
	KeyGoalsDailyWords         = "goals.daily_words"
	KeySecretsBackend          = "secrets.backend"
	KeyLogVerbose              = "log.verbose"
)

// SettingKeys lists every recognised configuration key.
var SettingKeys = []string{
	KeyRemoteAPIPath,
	KeyRemoteTimeoutSeconds,
	KeyRemoteRequestsPerSecond,
	KeyRemoteMaxResponseBytes,
	KeySyncPerPage,
	KeyGoalsDailyWords,
	KeySecretsBackend,
	KeyLogVerbose,
}

// SecretBackend selects where site secrets are kept.
type SecretBackend string

// Available secret backends.
const (
	// SecretBackendFile stores secrets in a 0600 TOML file next to the config.
	SecretBackendFile SecretBackend = "file"

	// SecretBackendKeychain stores secrets in the macOS keychain.
	SecretBackendKeychain SecretBackend = "keychain"
)

// IsValid returns true if the backend is recognised.
func (b SecretBackend) IsValid() bool {
	return b == SecretBackendFile || b == SecretBackendKeychain
}

// RemoteSettings configures the remote REST client.
type RemoteSettings struct {
	// APIPath is appended to the site URL, e.g. "/api/v2" or "/wp-json/wp/v2".
	APIPath string

	TimeoutSeconds    int
	RequestsPerSecond int

	// MaxResponseBytes caps a single response body. Larger bodies are
	// treated as an oversize transport failure.
	MaxResponseBytes int
}

// SyncSettings configures the sync engine.
type SyncSettings struct {
	// PerPage is the initial page size for remote listings.
	PerPage int
}

// GoalSettings configures the writing-goal tracker.
type GoalSettings struct {
	DailyWords int
}

// Settings is the typed view of config.toml.
type Settings struct {
	Remote        RemoteSettings
	Sync          SyncSettings
	Goals         GoalSettings
	SecretBackend SecretBackend
	Verbose       bool
}

// DefaultSettings returns the settings used when config.toml is empty.
func DefaultSettings() Settings {
	return Settings{
		Remote: RemoteSettings{
			APIPath:           "/api/v2",
			TimeoutSeconds:    30,
			RequestsPerSecond: 5,
			MaxResponseBytes:  8 << 20,
		},
		Sync:          SyncSettings{PerPage: 50},
		Goals:         GoalSettings{DailyWords: 500},
		SecretBackend: defaultSecretBackend(runtime.GOOS),
	}
}

// defaultSecretBackend prefers the keychain where one exists.
func defaultSecretBackend(goos string) SecretBackend {
	if goos == "darwin" {
		return SecretBackendKeychain
	}
	return SecretBackendFile
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	if !strings.HasPrefix(s.Remote.APIPath, "/") {
		return fmt.Errorf("%w: %s must start with /", ErrInvalidInput, KeyRemoteAPIPath)
	}
	if s.Remote.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidInput, KeyRemoteTimeoutSeconds)
	}
	if s.Remote.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidInput, KeyRemoteRequestsPerSecond)
	}
	if s.Remote.MaxResponseBytes <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidInput, KeyRemoteMaxResponseBytes)
	}
	if s.Sync.PerPage < 1 || s.Sync.PerPage > 100 {
		return fmt.Errorf("%w: %s must be between 1 and 100", ErrInvalidInput, KeySyncPerPage)
	}
	if s.Goals.DailyWords < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, KeyGoalsDailyWords)
	}
	if !s.SecretBackend.IsValid() {
		return fmt.Errorf("%w: unknown secret backend %q", ErrInvalidInput, s.SecretBackend)
	}
	return nil
}
