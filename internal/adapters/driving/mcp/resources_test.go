package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-editor/quill/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractPostID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"valid post URI", "quill://posts/abc-123", "abc-123"},
		{"invalid prefix", "file://posts/abc-123", ""},
		{"listing URI", "quill://posts", ""},
		{"nested path", "quill://posts/abc/extra", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractPostID(tt.uri))
		})
	}
}

func TestServer_handlePostsResource(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &Ports{})

	result, err := server.handlePostsResource(ctx, makeReadResourceRequest("quill://posts"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "[]", result.Contents[0].Text)

	_, err = server.ports.Posts.Create(ctx, "First post", "<p>Hello</p>")
	require.NoError(t, err)

	result, err = server.handlePostsResource(ctx, makeReadResourceRequest("quill://posts"))
	require.NoError(t, err)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, `"title": "First post"`)
	assert.NotContains(t, result.Contents[0].Text, "<p>Hello</p>")
}

func TestServer_handlePostContentResource(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &Ports{})
	post, err := server.ports.Posts.Create(ctx, "T", "<p>Hello</p>")
	require.NoError(t, err)

	result, err := server.handlePostContentResource(ctx, makeReadResourceRequest("quill://posts/"+post.ID))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "<p>Hello</p>", result.Contents[0].Text)
	assert.Equal(t, "text/html", result.Contents[0].MIMEType)

	_, err = server.handlePostContentResource(ctx, makeReadResourceRequest("quill://posts/missing"))
	require.Error(t, err)

	_, err = server.handlePostContentResource(ctx, makeReadResourceRequest("quill://other"))
	require.Error(t, err)
}

func TestServer_handleSiteResource(t *testing.T) {
	ctx := context.Background()
	req := makeReadResourceRequest("quill://site")

	t.Run("no site service", func(t *testing.T) {
		result, err := newTestServer(t, &Ports{}).handleSiteResource(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "null", result.Contents[0].Text)
	})

	t.Run("not connected", func(t *testing.T) {
		result, err := newTestServer(t, &Ports{Sites: &mockSiteService{}}).handleSiteResource(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "null", result.Contents[0].Text)
	})

	t.Run("connected", func(t *testing.T) {
		synced := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		sites := &mockSiteService{site: &domain.SiteConfiguration{
			SiteURL:    "https://blog.example",
			Username:   "admin",
			LastSyncAt: &synced,
		}}

		result, err := newTestServer(t, &Ports{Sites: sites}).handleSiteResource(ctx, req)
		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"url": "https://blog.example"`)
		assert.Contains(t, text, `"username": "admin"`)
		assert.Contains(t, text, `"last_sync_at": "2026-01-02T03:04:05Z"`)
	})

	t.Run("lookup error", func(t *testing.T) {
		sites := &mockSiteService{err: errors.New("store closed")}
		_, err := newTestServer(t, &Ports{Sites: sites}).handleSiteResource(ctx, req)
		assert.ErrorContains(t, err, "store closed")
	})
}
