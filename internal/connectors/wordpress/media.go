package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/quill-editor/quill/internal/core/domain"
)

// UploadMedia uploads a file to the media library as a multipart body.
func (c *Client) UploadMedia(
	ctx context.Context, creds domain.SiteCredentials, data []byte, filename, mimeType string,
) (*domain.MediaItem, error) {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	body, contentType, err := multipartBody(data, filename, mimeType)
	if err != nil {
		return nil, &domain.EncodingError{What: "media upload", Err: err}
	}

	resp, err := c.do(ctx, creds, request{
		method:      http.MethodPost,
		path:        "/media",
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}

	var wire wireMedia
	if err := json.Unmarshal(resp.body, &wire); err != nil {
		return nil, &domain.DecodingError{What: "media item", Err: err}
	}

	c.logf(domain.LogInfo, "uploaded %s as media %d", filename, wire.ID)
	return &domain.MediaItem{ID: wire.ID, URL: wire.SourceURL}, nil
}

func multipartBody(data []byte, filename, mimeType string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", mimeType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
