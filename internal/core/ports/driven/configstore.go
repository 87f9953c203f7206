package driven

// ConfigStore holds raw setting values under dot-separated keys such as
// "sync.per_page". Values are whatever the backing format decodes to
// (TOML gives int64 for whole numbers); parsing and defaults belong to
// the settings service.
type ConfigStore interface {
	// Get returns the stored value and whether the key is present.
	Get(key string) (any, bool)

	// Set stores a value and persists it before returning.
	Set(key string, value any) error

	// Delete removes a key so its default applies again. Deleting a
	// missing key is not an error.
	Delete(key string) error

	// Path names where the values live, for display.
	Path() string
}
