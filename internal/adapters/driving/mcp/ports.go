package mcp

import (
	"github.com/quill-editor/quill/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Posts manages local posts.
	Posts driving.PostService

	// Sites reports the connected site.
	Sites driving.SiteService

	// Sync reconciles posts with the site.
	Sync driving.SyncService

	// Goals tracks words written.
	Goals driving.GoalService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Posts == nil {
		return ErrMissingPostService
	}
	// The rest are optional; their tools report being unavailable.
	return nil
}
