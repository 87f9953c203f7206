package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
	"github.com/quill-editor/quill/internal/core/ports/driving"
)

// Ensure PostService implements the interface.
var _ driving.PostService = (*PostService)(nil)

// PostService manages local posts.
type PostService struct {
	posts    driven.PostStore
	sites    driven.SiteStore
	secrets  driven.SecretStore
	remote   driven.RemoteClient
	markdown driven.MarkdownConverter
	log      driven.LogSink
	now      func() time.Time
}

// NewPostService creates a new post service. remote and markdown may be nil;
// the operations that need them then return domain.ErrInvalidInput.
func NewPostService(
	posts driven.PostStore,
	sites driven.SiteStore,
	secrets driven.SecretStore,
	remote driven.RemoteClient,
	markdown driven.MarkdownConverter,
	log driven.LogSink,
) *PostService {
	return &PostService{
		posts:    posts,
		sites:    sites,
		secrets:  secrets,
		remote:   remote,
		markdown: markdown,
		log:      sinkOrNop(log),
		now:      time.Now,
	}
}

// Create writes a new post. It is queued for upload when a site is connected.
func (s *PostService) Create(ctx context.Context, title, content string) (*domain.Post, error) {
	post := domain.NewPost(uuid.NewString(), strings.TrimSpace(title), content, s.now())

	site, err := currentSite(ctx, s.sites)
	switch {
	case errors.Is(err, domain.ErrNoSite):
		// Stays local until a site is connected.
	case err != nil:
		return nil, err
	default:
		post.SiteID = site.ID
		post.Queue()
	}

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	return post, nil
}

// Get retrieves a post by ID.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	return s.posts.Get(ctx, id)
}

// List returns posts matching the filter.
func (s *PostService) List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error) {
	return s.posts.List(ctx, filter)
}

// Update applies a local edit.
func (s *PostService) Update(ctx context.Context, id string, edit domain.PostEdit) (*domain.Post, error) {
	if edit.Status != nil && !edit.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown post status %q", domain.ErrInvalidInput, *edit.Status)
	}

	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if edit.IsEmpty() {
		return post, nil
	}

	post.ApplyEdit(edit, s.now())
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	return post, nil
}

// Delete removes a post locally. With remote set, a post that was uploaded
// is first moved to the remote trash; a failure there keeps the local copy.
func (s *PostService) Delete(ctx context.Context, id string, remote bool) error {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return err
	}

	if remote && post.RemoteID != nil {
		if s.remote == nil {
			return fmt.Errorf("%w: no remote client configured", domain.ErrInvalidInput)
		}
		_, creds, err := siteCredentials(ctx, s.sites, s.secrets, post.SiteID)
		if err != nil {
			return err
		}
		if err := s.remote.DeletePost(ctx, creds, *post.RemoteID); err != nil {
			return fmt.Errorf("delete remote post: %w", err)
		}
		s.log.Log(domain.LogInfo, "posts", fmt.Sprintf("moved remote post %d to trash", *post.RemoteID))
	}

	return s.posts.Delete(ctx, id)
}

// ImportMarkdown creates a post from a Markdown document. A document
// without a level-one heading is titled fallbackTitle.
func (s *PostService) ImportMarkdown(ctx context.Context, source []byte, fallbackTitle string) (*domain.Post, error) {
	title, content, err := s.convert(source)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = fallbackTitle
	}
	return s.Create(ctx, title, content)
}

// ReplaceFromMarkdown overwrites a post's title and content from Markdown.
// Without a level-one heading the title becomes fallbackTitle, and when
// that is empty too the current title is kept.
func (s *PostService) ReplaceFromMarkdown(ctx context.Context, id string, source []byte, fallbackTitle string) (*domain.Post, error) {
	title, content, err := s.convert(source)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = fallbackTitle
	}

	edit := domain.PostEdit{Content: &content}
	if title != "" {
		edit.Title = &title
	}
	return s.Update(ctx, id, edit)
}

func (s *PostService) convert(source []byte) (string, string, error) {
	if s.markdown == nil {
		return "", "", fmt.Errorf("%w: no markdown converter configured", domain.ErrInvalidInput)
	}
	title, content, err := s.markdown.Convert(source)
	if err != nil {
		return "", "", fmt.Errorf("convert markdown: %w", err)
	}
	return title, content, nil
}
