package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// AppID prefixes every key this application writes to the secret store.
const AppID = "app.quill"

// SiteConfiguration is the connected remote site. The password or
// application token is kept in the secret store under SecretKey.
type SiteConfiguration struct {
	// ID is the unique identifier (UUID).
	ID string

	// SiteURL is the normalised https base URL without a trailing slash.
	SiteURL string

	// Username is the account used for HTTP Basic authentication.
	Username string

	// IsWordPressCom selects the hosted API gateway instead of the site's own endpoint.
	IsWordPressCom bool

	CreatedAt time.Time

	// LastSyncAt is when the last pull completed. Nil before the first sync.
	LastSyncAt *time.Time
}

// SecretKey returns the secret store key for this configuration.
func (s *SiteConfiguration) SecretKey() string {
	return SecretKey(s.ID)
}

// Credentials combines the configuration with its secret.
func (s *SiteConfiguration) Credentials(secret string) SiteCredentials {
	return SiteCredentials{
		SiteURL:        s.SiteURL,
		Username:       s.Username,
		Secret:         secret,
		IsWordPressCom: s.IsWordPressCom,
	}
}

// SecretKey derives the secret store key for a site configuration id.
func SecretKey(configID string) string {
	return AppID + ".site." + configID
}

// NormalizeSiteURL validates a user-supplied site URL. Only https is
// accepted. A missing scheme defaults to https.
func NormalizeSiteURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme must be https, got %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/"), nil
}
