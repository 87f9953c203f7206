package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quill-editor/quill/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for quill resources.
	uriScheme = "quill://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "posts",
		Name:        "posts",
		Description: "All local posts without their content",
		MIMEType:    "application/json",
	}, s.handlePostsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "site",
		Name:        "site",
		Description: "The connected site, if any",
		MIMEType:    "application/json",
	}, s.handleSiteResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "posts/{postId}",
		Name:        "post-content",
		Description: "HTML content of a specific post",
		MIMEType:    "text/html",
	}, s.handlePostContentResource)
}

// handlePostsResource returns every local post.
func (s *Server) handlePostsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	posts, err := s.ports.Posts.List(ctx, domain.PostFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	summaries := make([]PostSummary, len(posts))
	for i, p := range posts {
		summaries[i] = summarise(p)
	}
	return jsonResult(req.Params.URI, summaries)
}

// handleSiteResource returns the connected site, or null.
func (s *Server) handleSiteResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type siteInfo struct {
		URL            string `json:"url"`
		Username       string `json:"username"`
		IsWordPressCom bool   `json:"is_wordpress_com"`
		LastSyncAt     string `json:"last_sync_at,omitempty"`
	}

	if s.ports.Sites == nil {
		return jsonResult(req.Params.URI, nil)
	}
	site, err := s.ports.Sites.Current(ctx)
	if errors.Is(err, domain.ErrNoSite) {
		return jsonResult(req.Params.URI, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("getting site: %w", err)
	}

	info := siteInfo{URL: site.SiteURL, Username: site.Username, IsWordPressCom: site.IsWordPressCom}
	if site.LastSyncAt != nil {
		info.LastSyncAt = site.LastSyncAt.Format(time.RFC3339)
	}
	return jsonResult(req.Params.URI, info)
}

// handlePostContentResource returns the HTML content of one post.
func (s *Server) handlePostContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	postID := extractPostID(req.Params.URI)
	if postID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	post, err := s.ports.Posts.Get(ctx, postID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting post: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/html",
			Text:     post.Content,
		}},
	}, nil
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractPostID extracts the post ID from a URI like quill://posts/{postId}.
func extractPostID(uri string) string {
	const prefix = uriScheme + "posts/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
