// Package tui provides an interactive terminal user interface for quill.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/quill-editor/quill/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Posts manages local posts.
	Posts driving.PostService

	// Sync reconciles posts with the connected site.
	Sync driving.SyncService

	// Sites reports the connected site.
	Sites driving.SiteService

	// Goals tracks words written.
	Goals driving.GoalService
}

// Validate ensures the required ports are set. Only Posts is required;
// the views that need the others degrade when they are missing.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Posts == nil {
		return ErrMissingPostService
	}
	return nil
}
