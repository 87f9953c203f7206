package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
	"github.com/quill-editor/quill/internal/core/ports/driving"
)

// Ensure MediaService implements the interface.
var _ driving.MediaService = (*MediaService)(nil)

// MediaService uploads files to the connected site.
type MediaService struct {
	sites   driven.SiteStore
	secrets driven.SecretStore
	remote  driven.RemoteClient
}

// NewMediaService creates a new media service.
func NewMediaService(sites driven.SiteStore, secrets driven.SecretStore, remote driven.RemoteClient) *MediaService {
	return &MediaService{sites: sites, secrets: secrets, remote: remote}
}

// Upload sends data to the remote media library of the connected site.
func (s *MediaService) Upload(
	ctx context.Context, filename string, data []byte, mimeType string,
) (*domain.MediaItem, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrInvalidInput, filename)
	}

	site, err := currentSite(ctx, s.sites)
	if err != nil {
		return nil, err
	}
	_, creds, err := siteCredentials(ctx, s.sites, s.secrets, site.ID)
	if err != nil {
		return nil, err
	}

	if mimeType == "" {
		mimeType = detectMIMEType(filename, data)
	}
	item, err := s.remote.UploadMedia(ctx, creds, data, filename, mimeType)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}
	return item, nil
}

// detectMIMEType prefers the extension and falls back to sniffing.
func detectMIMEType(filename string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}
