package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
	"github.com/quill-editor/quill/internal/core/ports/driving"
)

// Ensure SyncOrchestrator implements the interface.
var (
	_ driving.SyncService = (*SyncOrchestrator)(nil)
	_ SiteLocker          = (*SyncOrchestrator)(nil)
)

const logSource = "sync"

// Sync phases reported by Status.
const (
	phasePull  = "pull"
	phasePush  = "push"
	phaseCheck = "check"
)

// SyncOrchestrator reconciles local posts with the remote site.
//
// Pull overwrites local copies with the server's and is all-or-nothing:
// the reconciled posts are written in one batch after the whole listing
// has been fetched. Push walks pending posts one at a time and keeps
// going past individual failures.
type SyncOrchestrator struct {
	posts   driven.PostStore
	sites   driven.SiteStore
	secrets driven.SecretStore
	remote  driven.RemoteClient
	log     driven.LogSink
	perPage int
	now     func() time.Time

	guard siteGuard

	// Status tracking
	mu       sync.RWMutex
	statuses map[string]*driving.SyncStatus
}

// NewSyncOrchestrator creates a new sync orchestrator. perPage is the
// initial page size for remote listings.
func NewSyncOrchestrator(
	posts driven.PostStore,
	sites driven.SiteStore,
	secrets driven.SecretStore,
	remote driven.RemoteClient,
	log driven.LogSink,
	perPage int,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		posts:    posts,
		sites:    sites,
		secrets:  secrets,
		remote:   remote,
		log:      sinkOrNop(log),
		perPage:  perPage,
		now:      time.Now,
		statuses: make(map[string]*driving.SyncStatus),
	}
}

// Hold runs fn with siteID marked busy, so no sync starts until fn
// returns. It fails with domain.ErrSyncInProgress when one is running.
func (o *SyncOrchestrator) Hold(siteID string, fn func() error) error {
	if !o.guard.TryLock(siteID) {
		return domain.ErrSyncInProgress
	}
	defer o.guard.Unlock(siteID)
	return fn()
}

// Pull fetches every remote post and overwrites the local copies.
func (o *SyncOrchestrator) Pull(ctx context.Context, siteID string) (*driving.SyncReport, error) {
	if !o.guard.TryLock(siteID) {
		return nil, domain.ErrSyncInProgress
	}
	defer o.guard.Unlock(siteID)

	return o.pull(ctx, siteID)
}

// Push uploads pending posts one at a time.
func (o *SyncOrchestrator) Push(ctx context.Context, siteID string) (*driving.SyncReport, error) {
	if !o.guard.TryLock(siteID) {
		return nil, domain.ErrSyncInProgress
	}
	defer o.guard.Unlock(siteID)

	return o.push(ctx, siteID)
}

// Sync runs Pull followed by Push under one lock. A failed pull skips the push.
func (o *SyncOrchestrator) Sync(ctx context.Context, siteID string) (*driving.SyncReport, error) {
	if !o.guard.TryLock(siteID) {
		return nil, domain.ErrSyncInProgress
	}
	defer o.guard.Unlock(siteID)

	report, err := o.pull(ctx, siteID)
	if err != nil {
		return nil, err
	}

	pushed, err := o.push(ctx, siteID)
	report.Merge(pushed)
	if err != nil {
		return report, err
	}
	return report, nil
}

func (o *SyncOrchestrator) pull(ctx context.Context, siteID string) (*driving.SyncReport, error) {
	status := o.begin(siteID, phasePull)
	defer o.finish(siteID)

	site, creds, err := siteCredentials(ctx, o.sites, o.secrets, siteID)
	if err != nil {
		o.fail(status, err)
		return nil, err
	}

	o.logf(domain.LogInfo, "pulling posts from %s", site.SiteURL)
	remotePosts, err := o.remote.FetchPosts(ctx, creds, o.perPage)
	if err != nil {
		err = fmt.Errorf("fetch remote posts: %w", err)
		o.fail(status, err)
		return nil, err
	}

	report := &driving.SyncReport{SiteID: siteID}
	batch := make([]*domain.Post, 0, len(remotePosts))

	for _, rp := range remotePosts {
		// Nothing is written until the batch below, so stopping here
		// leaves every post untouched.
		if err := ctx.Err(); err != nil {
			o.fail(status, err)
			return nil, err
		}

		post, err := o.posts.GetByRemoteID(ctx, siteID, rp.ID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			post = &domain.Post{ID: uuid.NewString()}
			report.Created++
		case err != nil:
			err = fmt.Errorf("look up remote post %d: %w", rp.ID, err)
			o.fail(status, err)
			return nil, err
		default:
			if post.HasUnsavedChanges() {
				o.logf(domain.LogWarning, "discarding unsynced local edits to %q (remote id %d)", post.Title, rp.ID)
				report.Discarded++
			}
			report.Updated++
		}

		post.ApplyRemote(siteID, rp)
		post.MarkAsSynced()
		batch = append(batch, post)
		o.progress(status)
	}

	if err := o.posts.SaveBatch(ctx, batch); err != nil {
		err = fmt.Errorf("save pulled posts: %w", err)
		o.fail(status, err)
		return nil, err
	}

	now := o.now()
	site.LastSyncAt = &now
	if err := o.sites.Save(ctx, site); err != nil {
		err = fmt.Errorf("save site: %w", err)
		o.fail(status, err)
		return nil, err
	}

	o.logf(domain.LogInfo, "pull complete: %d created, %d updated, %d discarded",
		report.Created, report.Updated, report.Discarded)
	return report, nil
}

func (o *SyncOrchestrator) push(ctx context.Context, siteID string) (*driving.SyncReport, error) {
	status := o.begin(siteID, phasePush)
	defer o.finish(siteID)

	_, creds, err := siteCredentials(ctx, o.sites, o.secrets, siteID)
	if err != nil {
		o.fail(status, err)
		return nil, err
	}

	posts, err := o.posts.List(ctx, domain.PostFilter{SiteID: siteID})
	if err != nil {
		err = fmt.Errorf("list posts: %w", err)
		o.fail(status, err)
		return nil, err
	}

	report := &driving.SyncReport{SiteID: siteID}
	for _, post := range posts {
		if !post.SyncStatus.IsPending() {
			if post.SyncStatus == domain.SyncStatusConflict {
				o.logf(domain.LogWarning, "skipping conflicted post %q; resolve it first", post.Title)
			}
			continue
		}
		if err := ctx.Err(); err != nil {
			o.fail(status, err)
			return report, err
		}

		created, err := o.pushOne(ctx, siteID, creds, post)
		if err != nil {
			report.Failed++
			report.LastError = err
			o.fail(status, err)
			o.logf(domain.LogWarning, "push %q failed: %v", post.Title, err)
			continue
		}

		if created {
			report.Uploaded++
		} else {
			report.Pushed++
		}
		o.progress(status)
	}

	o.logf(domain.LogInfo, "push complete: %d uploaded, %d updated, %d failed",
		report.Uploaded, report.Pushed, report.Failed)
	return report, nil
}

// pushOne creates or updates a single post. The post is saved only after
// the remote call succeeds, so a failure leaves it queued unchanged.
func (o *SyncOrchestrator) pushOne(
	ctx context.Context, siteID string, creds domain.SiteCredentials, post *domain.Post,
) (bool, error) {
	var (
		remote  *domain.RemotePost
		created bool
		err     error
	)

	switch {
	case post.RemoteID != nil:
		remote, err = o.remote.UpdatePost(ctx, creds, *post.RemoteID, post.Fields())
	case post.SyncStatus == domain.SyncStatusPendingUpdate:
		return false, fmt.Errorf("push %s: %w", post.ID, domain.ErrMissingRemoteID)
	default:
		remote, err = o.remote.CreatePost(ctx, creds, post.Fields())
		created = true
	}
	if err != nil {
		return false, err
	}

	post.ConfirmPush(siteID, *remote)

	// The server already holds the change; record it even if the caller
	// gave up in the meantime.
	if err := o.posts.Save(context.WithoutCancel(ctx), post); err != nil {
		return false, fmt.Errorf("save pushed post: %w", err)
	}
	return created, nil
}

// Check records the server's modified times and classifies every post.
// Content is never changed; posts edited on both sides are flagged as conflicts.
func (o *SyncOrchestrator) Check(ctx context.Context, siteID string) ([]driving.PostSyncState, error) {
	if !o.guard.TryLock(siteID) {
		return nil, domain.ErrSyncInProgress
	}
	defer o.guard.Unlock(siteID)

	status := o.begin(siteID, phaseCheck)
	defer o.finish(siteID)

	_, creds, err := siteCredentials(ctx, o.sites, o.secrets, siteID)
	if err != nil {
		o.fail(status, err)
		return nil, err
	}

	remotePosts, err := o.remote.FetchPosts(ctx, creds, o.perPage)
	if err != nil {
		err = fmt.Errorf("fetch remote posts: %w", err)
		o.fail(status, err)
		return nil, err
	}
	modified := make(map[int64]time.Time, len(remotePosts))
	for _, rp := range remotePosts {
		modified[rp.ID] = rp.Modified
	}

	posts, err := o.posts.List(ctx, domain.PostFilter{SiteID: siteID})
	if err != nil {
		err = fmt.Errorf("list posts: %w", err)
		o.fail(status, err)
		return nil, err
	}

	var observed []*domain.Post
	states := make([]driving.PostSyncState, 0, len(posts))
	for _, post := range posts {
		if post.RemoteID != nil {
			if m, ok := modified[*post.RemoteID]; ok {
				post.ObserveRemote(m)
				observed = append(observed, post)
			}
		}
		states = append(states, driving.PostSyncState{Post: post, State: post.SyncState()})
		o.progress(status)
	}

	if err := o.posts.SaveBatch(ctx, observed); err != nil {
		err = fmt.Errorf("save observed posts: %w", err)
		o.fail(status, err)
		return nil, err
	}
	return states, nil
}

// Resolve settles a post edited on both sides.
func (o *SyncOrchestrator) Resolve(
	ctx context.Context, postID string, keep driving.Resolution,
) (*domain.Post, error) {
	if !keep.IsValid() {
		return nil, fmt.Errorf("%w: unknown resolution %q", domain.ErrInvalidInput, keep)
	}

	post, err := o.posts.Get(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post.RemoteID == nil || post.SiteID == "" {
		return nil, fmt.Errorf("%w: post %s has no remote copy", domain.ErrInvalidInput, postID)
	}

	if !o.guard.TryLock(post.SiteID) {
		return nil, domain.ErrSyncInProgress
	}
	defer o.guard.Unlock(post.SiteID)

	switch keep {
	case driving.KeepLocal:
		post.Queue()
	case driving.KeepRemote:
		_, creds, err := siteCredentials(ctx, o.sites, o.secrets, post.SiteID)
		if err != nil {
			return nil, err
		}
		remote, err := o.remote.FetchPost(ctx, creds, *post.RemoteID)
		if err != nil {
			return nil, fmt.Errorf("fetch remote post: %w", err)
		}
		post.ApplyRemote(post.SiteID, *remote)
		post.MarkAsSynced()
	}

	if err := o.posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	o.logf(domain.LogInfo, "resolved %q keeping %s copy", post.Title, keep)
	return post, nil
}

// Status returns the state of the current or last operation for a site.
func (o *SyncOrchestrator) Status(_ context.Context, siteID string) (*driving.SyncStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if status, ok := o.statuses[siteID]; ok {
		// Return a copy to avoid race conditions
		cp := *status
		return &cp, nil
	}

	return &driving.SyncStatus{
		SiteID:  siteID,
		Running: false,
	}, nil
}

func (o *SyncOrchestrator) begin(siteID, phase string) *driving.SyncStatus {
	o.mu.Lock()
	defer o.mu.Unlock()

	status := &driving.SyncStatus{SiteID: siteID, Running: true, Phase: phase}
	o.statuses[siteID] = status
	return status
}

func (o *SyncOrchestrator) finish(siteID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if status, ok := o.statuses[siteID]; ok {
		status.Running = false
	}
}

func (o *SyncOrchestrator) progress(status *driving.SyncStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	status.PostsProcessed++
}

func (o *SyncOrchestrator) fail(status *driving.SyncStatus, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	status.ErrorCount++
	status.LastError = err.Error()
}

func (o *SyncOrchestrator) logf(level domain.LogLevel, format string, args ...any) {
	o.log.Log(level, logSource, fmt.Sprintf(format, args...))
}
