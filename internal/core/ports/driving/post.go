package driving

import (
	"context"

	"github.com/quill-editor/quill/internal/core/domain"
)

// PostService manages local posts.
type PostService interface {
	// Create writes a new post. It is queued for upload when a site is connected.
	Create(ctx context.Context, title, content string) (*domain.Post, error)

	// Get retrieves a post by ID.
	Get(ctx context.Context, id string) (*domain.Post, error)

	// List returns posts matching the filter.
	List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error)

	// Update applies a local edit.
	Update(ctx context.Context, id string, edit domain.PostEdit) (*domain.Post, error)

	// Delete removes a post locally, and moves it to the remote trash if remote is set.
	Delete(ctx context.Context, id string, remote bool) error

	// ImportMarkdown creates a post from a Markdown document. The first
	// level-one heading is the title, fallbackTitle when there is none.
	ImportMarkdown(ctx context.Context, source []byte, fallbackTitle string) (*domain.Post, error)

	// ReplaceFromMarkdown overwrites a post's title and content from
	// Markdown, titling it as ImportMarkdown does. An empty fallbackTitle
	// keeps the current title for documents without a heading.
	ReplaceFromMarkdown(ctx context.Context, id string, source []byte, fallbackTitle string) (*domain.Post, error)
}
