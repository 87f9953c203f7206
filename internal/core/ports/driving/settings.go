package driving

import "github.com/quill-editor/quill/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the current settings, defaults filled in.
	Get() (domain.Settings, error)

	// Value returns one setting formatted for display.
	Value(key string) (string, error)

	// Set parses, validates and persists one setting.
	Set(key, value string) error

	// Reset drops a stored setting so its default applies again.
	Reset(key string) error
}
