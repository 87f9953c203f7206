package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
	"github.com/quill-editor/quill/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the current settings with defaults filled in.
func (s *SettingsService) Get() (domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := domain.Settings{
		Remote: domain.RemoteSettings{
			APIPath:           s.getString(domain.KeyRemoteAPIPath, defaults.Remote.APIPath),
			TimeoutSeconds:    s.getInt(domain.KeyRemoteTimeoutSeconds, defaults.Remote.TimeoutSeconds),
			RequestsPerSecond: s.getInt(domain.KeyRemoteRequestsPerSecond, defaults.Remote.RequestsPerSecond),
			MaxResponseBytes:  s.getInt(domain.KeyRemoteMaxResponseBytes, defaults.Remote.MaxResponseBytes),
		},
		Sync: domain.SyncSettings{
			PerPage: s.getInt(domain.KeySyncPerPage, defaults.Sync.PerPage),
		},
		Goals: domain.GoalSettings{
			DailyWords: s.getInt(domain.KeyGoalsDailyWords, defaults.Goals.DailyWords),
		},
		SecretBackend: domain.SecretBackend(s.getString(domain.KeySecretsBackend, string(defaults.SecretBackend))),
		Verbose:       s.getBool(domain.KeyLogVerbose, defaults.Verbose),
	}

	return settings, nil
}

// Value returns one setting formatted for display.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case domain.KeyRemoteAPIPath:
		return settings.Remote.APIPath, nil
	case domain.KeyRemoteTimeoutSeconds:
		return strconv.Itoa(settings.Remote.TimeoutSeconds), nil
	case domain.KeyRemoteRequestsPerSecond:
		return strconv.Itoa(settings.Remote.RequestsPerSecond), nil
	case domain.KeyRemoteMaxResponseBytes:
		return strconv.Itoa(settings.Remote.MaxResponseBytes), nil
	case domain.KeySyncPerPage:
		return strconv.Itoa(settings.Sync.PerPage), nil
	case domain.KeyGoalsDailyWords:
		return strconv.Itoa(settings.Goals.DailyWords), nil
	case domain.KeySecretsBackend:
		return string(settings.SecretBackend), nil
	case domain.KeyLogVerbose:
		return strconv.FormatBool(settings.Verbose), nil
	default:
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Set parses, validates and persists one setting. Nothing is written if
// the resulting settings would be invalid.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)

	var stored any
	switch key {
	case domain.KeyRemoteAPIPath:
		settings.Remote.APIPath = value
		stored = value
	case domain.KeySecretsBackend:
		settings.SecretBackend = domain.SecretBackend(value)
		stored = value
	case domain.KeyLogVerbose:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false", domain.ErrInvalidInput, key)
		}
		settings.Verbose = b
		stored = b
	case domain.KeyRemoteTimeoutSeconds, domain.KeyRemoteRequestsPerSecond,
		domain.KeyRemoteMaxResponseBytes, domain.KeySyncPerPage, domain.KeyGoalsDailyWords:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects a whole number", domain.ErrInvalidInput, key)
		}
		setInt(&settings, key, n)
		stored = n
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func setInt(settings *domain.Settings, key string, n int) {
	switch key {
	case domain.KeyRemoteTimeoutSeconds:
		settings.Remote.TimeoutSeconds = n
	case domain.KeyRemoteRequestsPerSecond:
		settings.Remote.RequestsPerSecond = n
	case domain.KeyRemoteMaxResponseBytes:
		settings.Remote.MaxResponseBytes = n
	case domain.KeySyncPerPage:
		settings.Sync.PerPage = n
	case domain.KeyGoalsDailyWords:
		settings.Goals.DailyWords = n
	}
}

// Reset removes a stored setting so its default applies again.
func (s *SettingsService) Reset(key string) error {
	if !slices.Contains(domain.SettingKeys, key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}

// The getters below apply a default only when the key is missing, so an
// explicit zero or false is kept. A value of the wrong type also falls
// back to the default.

func (s *SettingsService) getString(key, defaultVal string) string {
	if v, ok := s.configStore.Get(key); ok {
		if str, ok := v.(string); ok && str != "" {
			return str
		}
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	v, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return defaultVal
	}
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if v, ok := s.configStore.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}
