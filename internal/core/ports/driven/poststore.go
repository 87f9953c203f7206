package driven

import (
	"context"

	"github.com/quill-editor/quill/internal/core/domain"
)

// PostStore persists posts.
// Backed by SQLite in production and by a map in tests.
type PostStore interface {
	// Save stores or updates a post.
	Save(ctx context.Context, post *domain.Post) error

	// SaveBatch stores or updates all posts atomically. Either every post
	// is written or none is.
	SaveBatch(ctx context.Context, posts []*domain.Post) error

	// Get retrieves a post by local ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Post, error)

	// GetByRemoteID retrieves the post mirrored from a remote post.
	// Returns domain.ErrNotFound if none matches.
	GetByRemoteID(ctx context.Context, siteID string, remoteID int64) (*domain.Post, error)

	// List returns posts matching the filter, most recently modified first.
	List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error)

	// Delete removes a post by local ID.
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every post and returns how many were removed.
	DeleteAll(ctx context.Context) (int, error)
}
