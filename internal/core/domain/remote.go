package domain

import "time"

// RemotePost is a post as returned by the remote REST API.
// Title and Content are still entity-encoded as the server sent them.
type RemotePost struct {
	ID       int64
	Title    string
	Content  string
	Excerpt  string
	Slug     string
	Status   string
	Link     string
	Date     time.Time
	Modified time.Time
}

// RemotePostFields is the payload for creating or updating a remote post.
type RemotePostFields struct {
	Title   string
	Content string
	Status  string
	Slug    string
	Excerpt string
	// Date is sent only for scheduled posts.
	Date *time.Time
}

// MediaItem is an uploaded media file.
type MediaItem struct {
	ID  int64
	URL string
}

// SiteCredentials carries everything a remote call needs to authenticate.
// It lives only for the duration of one operation and is never persisted.
type SiteCredentials struct {
	SiteURL        string
	Username       string
	Secret         string
	IsWordPressCom bool
}

// Remote status values.
const (
	RemoteStatusPublish = "publish"
	RemoteStatusFuture  = "future"
	RemoteStatusDraft   = "draft"
	RemoteStatusPending = "pending"
	RemoteStatusPrivate = "private"
)

// RemoteStatus maps a local status to the value the remote API expects.
func RemoteStatus(s PostStatus) string {
	switch s {
	case PostStatusPublished:
		return RemoteStatusPublish
	case PostStatusScheduled:
		return RemoteStatusFuture
	default:
		return RemoteStatusDraft
	}
}

// HasLocalStatus reports whether a remote status maps onto a local status
// without loss. Empty counts as mapped.
func HasLocalStatus(status string) bool {
	switch status {
	case RemoteStatusPending, RemoteStatusPrivate:
		return false
	default:
		return true
	}
}

// PostStatusFromRemote maps a remote status to a local one.
// Pending and private posts are treated as drafts.
func PostStatusFromRemote(status string) PostStatus {
	switch status {
	case RemoteStatusPublish:
		return PostStatusPublished
	case RemoteStatusFuture:
		return PostStatusScheduled
	default:
		return PostStatusDraft
	}
}
