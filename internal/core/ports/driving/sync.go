package driving

import (
	"context"

	"github.com/quill-editor/quill/internal/core/domain"
)

// SyncService reconciles local posts with the remote site.
// At most one operation runs per site at a time; a concurrent call
// returns domain.ErrSyncInProgress.
type SyncService interface {
	// Pull fetches every remote post and overwrites the local copies.
	Pull(ctx context.Context, siteID string) (*SyncReport, error)

	// Push uploads pending posts one at a time.
	Push(ctx context.Context, siteID string) (*SyncReport, error)

	// Sync runs Pull followed by Push.
	Sync(ctx context.Context, siteID string) (*SyncReport, error)

	// Check records the server's modified times and classifies every post
	// without changing content.
	Check(ctx context.Context, siteID string) ([]PostSyncState, error)

	// Resolve settles a conflicted post by keeping one side.
	Resolve(ctx context.Context, postID string, keep Resolution) (*domain.Post, error)

	// Status returns the state of the current or last sync for a site.
	Status(ctx context.Context, siteID string) (*SyncStatus, error)
}

// SyncReport summarises one sync operation.
type SyncReport struct {
	SiteID string

	// Created counts posts materialised from the remote.
	Created int

	// Updated counts local posts overwritten from the remote.
	Updated int

	// Discarded counts overwritten posts that had unsynced local edits.
	Discarded int

	// Uploaded counts posts created on the remote.
	Uploaded int

	// Pushed counts remote posts updated from local edits.
	Pushed int

	// Failed counts posts skipped because their push failed.
	Failed int

	// LastError is the last per-post failure, if any.
	LastError error
}

// Merge adds the counts of another report.
func (r *SyncReport) Merge(other *SyncReport) {
	if other == nil {
		return
	}
	r.Created += other.Created
	r.Updated += other.Updated
	r.Discarded += other.Discarded
	r.Uploaded += other.Uploaded
	r.Pushed += other.Pushed
	r.Failed += other.Failed
	if other.LastError != nil {
		r.LastError = other.LastError
	}
}

// SyncStatus represents the current state of a sync operation.
type SyncStatus struct {
	// SiteID identifies the site.
	SiteID string

	// Running indicates if sync is currently in progress.
	Running bool

	// Phase is "pull", "push" or "check" while running.
	Phase string

	// PostsProcessed is the count of posts processed.
	PostsProcessed int

	// ErrorCount is the number of errors encountered.
	ErrorCount int

	// LastError is the last observed error message.
	LastError string
}

// PostSyncState pairs a post with its derived sync state.
type PostSyncState struct {
	Post  *domain.Post
	State domain.SyncState
}

// Resolution chooses which side wins a conflict.
type Resolution string

// Conflict resolutions.
const (
	// KeepLocal queues the local copy to overwrite the remote on next push.
	KeepLocal Resolution = "local"

	// KeepRemote replaces the local copy with the server's.
	KeepRemote Resolution = "remote"
)

// IsValid returns true if the resolution is recognised.
func (r Resolution) IsValid() bool {
	return r == KeepLocal || r == KeepRemote
}
