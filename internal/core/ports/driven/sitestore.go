package driven

import (
	"context"

	"github.com/quill-editor/quill/internal/core/domain"
)

// SiteStore persists site configurations.
type SiteStore interface {
	// Save stores or updates a site configuration.
	Save(ctx context.Context, site *domain.SiteConfiguration) error

	// Get retrieves a site configuration by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.SiteConfiguration, error)

	// List returns all site configurations, oldest first.
	List(ctx context.Context) ([]*domain.SiteConfiguration, error)

	// Delete removes a site configuration.
	Delete(ctx context.Context, id string) error
}
