package driven

import (
	"context"

	"github.com/quill-editor/quill/internal/core/domain"
)

// RemoteClient talks to the blog's REST API. Every call receives the
// credentials it needs; implementations must not retain them.
//
// Errors are drawn from the domain taxonomy: domain.ErrUnauthorized,
// *domain.HTTPError, *domain.DecodingError, *domain.EncodingError,
// domain.ErrInvalidURL, domain.ErrInvalidResponse and
// domain.ErrResponseTooLarge.
type RemoteClient interface {
	// TestConnection verifies the credentials. Returns nil on success.
	TestConnection(ctx context.Context, creds domain.SiteCredentials) error

	// FetchPosts returns every post on the site. Oversized responses are
	// retried with smaller pages, then post by post, before an error is returned.
	FetchPosts(ctx context.Context, creds domain.SiteCredentials, perPage int) ([]domain.RemotePost, error)

	// FetchPost returns a single post.
	FetchPost(ctx context.Context, creds domain.SiteCredentials, id int64) (*domain.RemotePost, error)

	// CreatePost creates a post and returns the server's copy.
	CreatePost(ctx context.Context, creds domain.SiteCredentials, fields domain.RemotePostFields) (*domain.RemotePost, error)

	// UpdatePost updates a post and returns the server's copy.
	UpdatePost(ctx context.Context, creds domain.SiteCredentials, id int64, fields domain.RemotePostFields) (*domain.RemotePost, error)

	// DeletePost moves a post to the trash. The server may keep it.
	DeletePost(ctx context.Context, creds domain.SiteCredentials, id int64) error

	// UploadMedia uploads a file as a multipart body.
	UploadMedia(ctx context.Context, creds domain.SiteCredentials, data []byte, filename, mimeType string) (*domain.MediaItem, error)
}
