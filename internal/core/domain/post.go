package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/quill-editor/quill/internal/normalisers/html"
)

// PostStatus is the publication status of a post.
type PostStatus string

// Publication statuses.
const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusScheduled PostStatus = "scheduled"
)

// IsValid returns true if the status is recognised.
func (s PostStatus) IsValid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusScheduled:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s PostStatus) String() string {
	return string(s)
}

// ParsePostStatus converts user input into a PostStatus.
func ParsePostStatus(s string) (PostStatus, error) {
	status := PostStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: unknown post status %q", ErrInvalidInput, s)
	}
	return status, nil
}

// SyncStatus records where a post stands relative to the remote site.
type SyncStatus string

// Sync statuses.
const (
	// SyncStatusLocal is a post written before any site was connected.
	SyncStatusLocal SyncStatus = "local"

	// SyncStatusSynced matches the remote as of the last sync.
	SyncStatusSynced SyncStatus = "synced"

	// SyncStatusPendingUpload has never been uploaded and is queued for push.
	SyncStatusPendingUpload SyncStatus = "pending_upload"

	// SyncStatusPendingUpdate has local edits queued for push.
	SyncStatusPendingUpdate SyncStatus = "pending_update"

	// SyncStatusConflict was edited on both sides. Push skips it until resolved.
	SyncStatusConflict SyncStatus = "conflict"
)

// IsPending returns true if the post is queued for push.
func (s SyncStatus) IsPending() bool {
	return s == SyncStatusPendingUpload || s == SyncStatusPendingUpdate
}

// SyncState classifies a post by comparing it against its sync baseline.
type SyncState int

// Sync states, the product of HasUnsavedChanges and HasRemoteChanges.
const (
	SyncStateUpToDate SyncState = iota
	SyncStatePullAvailable
	SyncStateUpdateAvailable
	SyncStateConflict
)

// String returns the string representation.
func (s SyncState) String() string {
	switch s {
	case SyncStateUpToDate:
		return "up_to_date"
	case SyncStatePullAvailable:
		return "pull_available"
	case SyncStateUpdateAvailable:
		return "update_available"
	case SyncStateConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Post is a blog post edited locally and optionally mirrored on the remote site.
type Post struct {
	// ID is the local identifier (UUID). Never reused.
	ID string

	// SiteID links the post to the SiteConfiguration it syncs with.
	// Empty for posts written before a site was connected.
	SiteID string

	// RemoteID is the server's identifier. Nil until the first successful upload.
	RemoteID *int64

	// Title is plain text.
	Title string

	// Content is block-structured HTML.
	Content string

	// Excerpt is derived from Content on every edit.
	Excerpt string

	// Slug is the URL-safe name, derived from the title or taken from the remote.
	Slug string

	Status     PostStatus
	SyncStatus SyncStatus

	CreatedAt  time.Time
	ModifiedAt time.Time

	// PublishedAt is the publication date, or the scheduled date for scheduled posts.
	PublishedAt *time.Time

	// LastRemoteModifiedAt is the server's modified time as of the last observation.
	LastRemoteModifiedAt *time.Time

	// LastSyncedModifiedAt is ModifiedAt at the last successful sync.
	// Only MarkAsSynced writes it, together with LastSyncedHash.
	LastSyncedModifiedAt *time.Time

	// LastSyncedHash is ContentHash at the last successful sync.
	LastSyncedHash string

	// RemoteStatus is the server's status as last observed, kept verbatim
	// because pending and private have no local equivalent.
	RemoteStatus string
}

// NewPost creates a post that exists only locally.
func NewPost(id, title, content string, now time.Time) *Post {
	return &Post{
		ID:         id,
		Title:      title,
		Content:    content,
		Excerpt:    html.Excerpt(content),
		Slug:       html.Slugify(title),
		Status:     PostStatusDraft,
		SyncStatus: SyncStatusLocal,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// ContentHash is a SHA-256 digest over the normalised title, normalised
// content, status and slug. Whitespace-only differences in the HTML do not
// change it.
func (p *Post) ContentHash() string {
	sum := sha256.Sum256([]byte(
		html.NormalizeText(p.Title) + "|" +
			html.NormalizeHTML(p.Content) + "|" +
			string(p.Status) + "|" +
			p.Slug,
	))
	return hex.EncodeToString(sum[:])
}

// HasUnsavedChanges reports whether the post differs from what the remote holds.
// A post that was never uploaded always has unsaved changes.
func (p *Post) HasUnsavedChanges() bool {
	if p.RemoteID == nil || p.LastSyncedHash == "" {
		return true
	}
	return p.ContentHash() != p.LastSyncedHash
}

// HasRemoteChanges reports whether the server modified the post after the
// last sync baseline.
func (p *Post) HasRemoteChanges() bool {
	if p.LastRemoteModifiedAt == nil {
		return false
	}
	baseline := p.ModifiedAt
	if p.LastSyncedModifiedAt != nil {
		baseline = *p.LastSyncedModifiedAt
	}
	return p.LastRemoteModifiedAt.After(baseline)
}

// SyncState derives the sync classification from the current field values.
func (p *Post) SyncState() SyncState {
	local, remote := p.HasUnsavedChanges(), p.HasRemoteChanges()
	switch {
	case local && remote:
		return SyncStateConflict
	case local:
		return SyncStateUpdateAvailable
	case remote:
		return SyncStatePullAvailable
	default:
		return SyncStateUpToDate
	}
}

// MarkAsSynced records the sync baseline. The hash and the modified time
// are always written together.
func (p *Post) MarkAsSynced() {
	modified := p.ModifiedAt
	p.LastSyncedHash = p.ContentHash()
	p.LastSyncedModifiedAt = &modified
	p.SyncStatus = SyncStatusSynced
}

// PostEdit holds the fields a user edit changes. Nil fields are left alone.
type PostEdit struct {
	Title       *string
	Content     *string
	Slug        *string
	Status      *PostStatus
	PublishedAt *time.Time
}

// IsEmpty returns true if the edit changes nothing.
func (e PostEdit) IsEmpty() bool {
	return e.Title == nil && e.Content == nil && e.Slug == nil && e.Status == nil && e.PublishedAt == nil
}

// ApplyEdit applies a local edit, bumps ModifiedAt and re-derives SyncStatus.
func (p *Post) ApplyEdit(edit PostEdit, now time.Time) {
	if edit.Title != nil {
		autoSlug := p.Slug == "" || p.Slug == html.Slugify(p.Title)
		p.Title = *edit.Title
		if autoSlug && edit.Slug == nil && p.RemoteID == nil {
			p.Slug = html.Slugify(p.Title)
		}
	}
	if edit.Content != nil {
		p.Content = *edit.Content
		p.Excerpt = html.Excerpt(p.Content)
	}
	if edit.Slug != nil {
		p.Slug = *edit.Slug
	}
	if edit.Status != nil {
		p.Status = *edit.Status
	}
	if edit.PublishedAt != nil {
		published := *edit.PublishedAt
		p.PublishedAt = &published
	}

	p.ModifiedAt = now
	p.refreshSyncStatus()
}

// refreshSyncStatus derives SyncStatus after a local edit.
func (p *Post) refreshSyncStatus() {
	switch {
	case p.SyncStatus == SyncStatusConflict:
		// Stays in conflict until explicitly resolved.
	case p.RemoteID == nil:
		if p.SyncStatus != SyncStatusLocal {
			p.SyncStatus = SyncStatusPendingUpload
		}
	case p.HasUnsavedChanges():
		p.SyncStatus = SyncStatusPendingUpdate
	default:
		p.SyncStatus = SyncStatusSynced
	}
}

// Queue marks a post for push. Posts with a remote id are queued as
// updates, the rest as uploads.
func (p *Post) Queue() {
	if p.RemoteID == nil {
		p.SyncStatus = SyncStatusPendingUpload
		return
	}
	p.SyncStatus = SyncStatusPendingUpdate
}

// ObserveRemote records the server's modified time without touching the
// sync baseline. A post edited on both sides is flagged as a conflict.
func (p *Post) ObserveRemote(modified time.Time) {
	m := modified
	p.LastRemoteModifiedAt = &m
	if p.SyncStatus != SyncStatusLocal && p.SyncState() == SyncStateConflict {
		p.SyncStatus = SyncStatusConflict
	}
}

// ApplyRemote overwrites the post with the server's copy. Local edits are
// discarded. The caller is expected to call MarkAsSynced afterwards.
func (p *Post) ApplyRemote(siteID string, r RemotePost) {
	remoteID := r.ID
	modified := r.Modified

	p.SiteID = siteID
	p.RemoteID = &remoteID
	p.Title = html.DecodeEntities(r.Title)
	p.Content = html.DecodeEntities(r.Content)
	p.Excerpt = html.Excerpt(p.Content)
	p.Slug = r.Slug
	p.Status = PostStatusFromRemote(r.Status)
	p.RemoteStatus = r.Status
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.Date
	}
	p.ModifiedAt = r.Modified
	p.LastRemoteModifiedAt = &modified

	p.PublishedAt = nil
	if p.Status != PostStatusDraft && !r.Date.IsZero() {
		date := r.Date
		p.PublishedAt = &date
	}
}

// ConfirmPush records a successful create or update and marks the post
// synced. ModifiedAt is moved up to the server's modified time so the
// server's own write is not later reported as a remote change.
func (p *Post) ConfirmPush(siteID string, r RemotePost) {
	remoteID := r.ID
	modified := r.Modified

	p.SiteID = siteID
	p.RemoteID = &remoteID
	p.LastRemoteModifiedAt = &modified
	if r.Status != "" {
		p.RemoteStatus = r.Status
	}
	if r.Modified.After(p.ModifiedAt) {
		p.ModifiedAt = r.Modified
	}
	p.MarkAsSynced()
}

// Fields converts the post into the payload used for create and update calls.
func (p *Post) Fields() RemotePostFields {
	status := RemoteStatus(p.Status)
	if p.Status == PostStatusFromRemote(p.RemoteStatus) && !HasLocalStatus(p.RemoteStatus) {
		status = p.RemoteStatus
	}
	fields := RemotePostFields{
		Title:   p.Title,
		Content: p.Content,
		Status:  status,
		Slug:    p.Slug,
		Excerpt: p.Excerpt,
	}
	if p.Status == PostStatusScheduled && p.PublishedAt != nil {
		date := *p.PublishedAt
		fields.Date = &date
	}
	return fields
}

// PostFilter narrows a post listing.
type PostFilter struct {
	SiteID     string
	Status     PostStatus
	SyncStatus SyncStatus
	// OnlyUnsynced restricts the listing to posts without a remote id.
	OnlyUnsynced bool
}

// Matches returns true if the post passes the filter.
func (f PostFilter) Matches(p *Post) bool {
	if f.SiteID != "" && p.SiteID != f.SiteID {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.SyncStatus != "" && p.SyncStatus != f.SyncStatus {
		return false
	}
	if f.OnlyUnsynced && p.RemoteID != nil {
		return false
	}
	return true
}
