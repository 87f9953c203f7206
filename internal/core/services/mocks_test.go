package services

import (
	"context"
	"fmt"
	"sort"
	stdsync "sync"
	"time"

	"github.com/quill-editor/quill/internal/adapters/driven/storage/memory"
	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
)

// fakeRemote implements driven.RemoteClient over an in-memory site.
type fakeRemote struct {
	mu     stdsync.Mutex
	posts  map[int64]domain.RemotePost
	nextID int64

	// modified is stamped on every create and update.
	modified time.Time

	testErr   error
	fetchErr  error
	createErr error
	updateErr map[int64]error
	deleteErr error

	// onFetch runs inside FetchPosts before the listing is returned.
	onFetch func()

	// started is closed when FetchPosts is entered; FetchPosts then
	// waits for release to be closed.
	started chan struct{}
	release chan struct{}

	lastCreds domain.SiteCredentials
	perPage   int
	created   []domain.RemotePostFields
	updated   []int64
	deleted   []int64
	uploads   []string
}

var _ driven.RemoteClient = (*fakeRemote)(nil)

func newFakeRemote(modified time.Time) *fakeRemote {
	return &fakeRemote{
		posts:     make(map[int64]domain.RemotePost),
		nextID:    100,
		modified:  modified,
		updateErr: make(map[int64]error),
	}
}

func (r *fakeRemote) put(p domain.RemotePost) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[p.ID] = p
}

func (r *fakeRemote) get(id int64) domain.RemotePost {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.posts[id]
}

func (r *fakeRemote) TestConnection(_ context.Context, creds domain.SiteCredentials) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastCreds = creds
	return r.testErr
}

func (r *fakeRemote) FetchPosts(ctx context.Context, creds domain.SiteCredentials, perPage int) ([]domain.RemotePost, error) {
	r.mu.Lock()
	r.lastCreds, r.perPage = creds, perPage
	started, release, hook := r.started, r.release, r.onFetch
	r.mu.Unlock()

	if started != nil {
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if hook != nil {
		hook()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	list := make([]domain.RemotePost, 0, len(r.posts))
	for _, p := range r.posts {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (r *fakeRemote) FetchPost(_ context.Context, _ domain.SiteCredentials, id int64) (*domain.RemotePost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, &domain.HTTPError{StatusCode: 404, Message: "Invalid post ID."}
	}
	return &p, nil
}

func (r *fakeRemote) CreatePost(_ context.Context, _ domain.SiteCredentials, fields domain.RemotePostFields) (*domain.RemotePost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	p := r.apply(domain.RemotePost{ID: r.nextID, Date: r.modified}, fields)
	r.created = append(r.created, fields)
	return &p, nil
}

func (r *fakeRemote) UpdatePost(_ context.Context, _ domain.SiteCredentials, id int64, fields domain.RemotePostFields) (*domain.RemotePost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.updateErr[id]; err != nil {
		return nil, err
	}
	existing, ok := r.posts[id]
	if !ok {
		return nil, &domain.HTTPError{StatusCode: 404}
	}
	p := r.apply(existing, fields)
	r.updated = append(r.updated, id)
	return &p, nil
}

func (r *fakeRemote) apply(p domain.RemotePost, fields domain.RemotePostFields) domain.RemotePost {
	p.Title = fields.Title
	p.Content = fields.Content
	p.Excerpt = fields.Excerpt
	p.Slug = fields.Slug
	p.Status = fields.Status
	p.Modified = r.modified
	r.posts[p.ID] = p
	return p
}

func (r *fakeRemote) DeletePost(_ context.Context, _ domain.SiteCredentials, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.posts, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeRemote) UploadMedia(_ context.Context, _ domain.SiteCredentials, data []byte, filename, mimeType string) (*domain.MediaItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads = append(r.uploads, filename+"|"+mimeType)
	return &domain.MediaItem{ID: int64(len(r.uploads)), URL: fmt.Sprintf("https://blog.example/uploads/%s?%d", filename, len(data))}, nil
}

// failingPostStore fails batch writes on demand.
type failingPostStore struct {
	*memory.PostStore
	batchErr error
}

func (s *failingPostStore) SaveBatch(ctx context.Context, posts []*domain.Post) error {
	if s.batchErr != nil {
		return s.batchErr
	}
	return s.PostStore.SaveBatch(ctx, posts)
}

// fakeMarkdown returns a fixed conversion.
type fakeMarkdown struct {
	title   string
	content string
	err     error
}

func (m fakeMarkdown) Convert([]byte) (string, string, error) {
	return m.title, m.content, m.err
}

type logEntry struct {
	level   domain.LogLevel
	source  string
	message string
}

// recordingLog implements driven.LogSink.
type recordingLog struct {
	mu      stdsync.Mutex
	entries []logEntry
}

func (l *recordingLog) Log(level domain.LogLevel, source, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level, source, message})
}

func (l *recordingLog) count(level domain.LogLevel) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

func int64Ptr(v int64) *int64 {
	return &v
}
