package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
)

// Ensure PostStore implements the interface.
var _ driven.PostStore = (*PostStore)(nil)

// PostStore is an in-memory implementation of driven.PostStore.
// Posts are stored by value so callers never share state with the store.
type PostStore struct {
	mu    sync.RWMutex
	posts map[string]domain.Post
}

// NewPostStore creates a new in-memory post store.
func NewPostStore() *PostStore {
	return &PostStore{
		posts: make(map[string]domain.Post),
	}
}

// Save stores or updates a post.
func (s *PostStore) Save(_ context.Context, post *domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = *post
	return nil
}

// SaveBatch stores or updates all posts under one lock.
func (s *PostStore) SaveBatch(_ context.Context, posts []*domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, post := range posts {
		s.posts[post.ID] = *post
	}
	return nil
}

// Get retrieves a post by local ID.
func (s *PostStore) Get(_ context.Context, id string) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &post, nil
}

// GetByRemoteID retrieves the post mirrored from a remote post.
func (s *PostStore) GetByRemoteID(_ context.Context, siteID string, remoteID int64) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.posts {
		post := s.posts[id]
		if post.SiteID == siteID && post.RemoteID != nil && *post.RemoteID == remoteID {
			return &post, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns posts matching the filter, most recently modified first.
func (s *PostStore) List(_ context.Context, filter domain.PostFilter) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Post
	for id := range s.posts {
		post := s.posts[id]
		if filter.Matches(&post) {
			result = append(result, &post)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].ModifiedAt.Equal(result[j].ModifiedAt) {
			return result[i].ModifiedAt.After(result[j].ModifiedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes a post by local ID.
func (s *PostStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
	return nil
}

// DeleteAll removes every post.
func (s *PostStore) DeleteAll(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.posts)
	s.posts = make(map[string]domain.Post)
	return n, nil
}
