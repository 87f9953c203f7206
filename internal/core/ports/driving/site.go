package driving

import (
	"context"

	"github.com/quill-editor/quill/internal/core/domain"
)

// SiteService manages the connection to the remote site.
type SiteService interface {
	// Connect tests the credentials, stores the configuration and the secret,
	// and replaces any previously connected site.
	Connect(ctx context.Context, req ConnectRequest) (*domain.SiteConfiguration, error)

	// Current returns the connected site or domain.ErrNoSite.
	Current(ctx context.Context) (*domain.SiteConfiguration, error)

	// Disconnect removes the site, its secret and every local post,
	// including posts with unsynced edits.
	Disconnect(ctx context.Context) (*DisconnectReport, error)
}

// ConnectRequest holds the user's connection details.
type ConnectRequest struct {
	SiteURL        string
	Username       string
	Secret         string
	IsWordPressCom bool
}

// DisconnectReport tells the caller what a disconnect destroyed.
type DisconnectReport struct {
	SiteURL string

	// PostsDeleted counts every local post removed.
	PostsDeleted int

	// UnsyncedDiscarded counts removed posts that had local edits never pushed.
	UnsyncedDiscarded int
}
