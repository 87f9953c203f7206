package driving

import (
	"context"

	"github.com/quill-editor/quill/internal/core/domain"
)

// MediaService uploads files to the connected site.
type MediaService interface {
	// Upload sends data to the remote media library. An empty mimeType is
	// derived from the filename.
	Upload(ctx context.Context, filename string, data []byte, mimeType string) (*domain.MediaItem, error)
}
