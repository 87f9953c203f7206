package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-editor/quill/internal/adapters/driven/storage/memory"
	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driving"
	"github.com/quill-editor/quill/internal/core/services"
)

func ptr[T any](v T) *T { return &v }

func TestServer_handleCreatePost(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		input     CreatePostInput
		wantTitle string
		wantHTML  string
	}{
		{"plain text", CreatePostInput{Title: "Hi", Content: "one\n\ntwo"}, "Hi", "<p>one</p>\n<p>two</p>"},
		{"html", CreatePostInput{Title: "Hi", Content: "<h2>A</h2>", Format: "html"}, "Hi", "<h2>A</h2>"},
		{"markdown with heading", CreatePostInput{Content: "# From MD\n\nbody *here*\n", Format: "markdown"}, "From MD", "<p>body <em>here</em></p>"},
		{"markdown title override", CreatePostInput{Title: "Mine", Content: "# From MD\n\nbody\n", Format: "markdown"}, "Mine", "<p>body</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, &Ports{})

			_, out, err := server.handleCreatePost(ctx, nil, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, out.Title)
			assert.Equal(t, tt.wantHTML, out.HTML)
			assert.Equal(t, "local", out.SyncStatus)

			stored, err := server.ports.Posts.Get(ctx, out.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHTML, stored.Content)
		})
	}
}

func TestServer_handleCreatePost_UnknownFormat(t *testing.T) {
	server := newTestServer(t, &Ports{})

	_, _, err := server.handleCreatePost(context.Background(), nil, CreatePostInput{Content: "x", Format: "rtf"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServer_handleGetPost(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &Ports{})
	post, err := server.ports.Posts.Create(ctx, "Hello", "<p>Three little words</p>")
	require.NoError(t, err)

	_, out, err := server.handleGetPost(ctx, nil, GetPostInput{ID: post.ID})
	require.NoError(t, err)
	assert.Equal(t, "Hello", out.Title)
	assert.Equal(t, "Three little words", out.Text)
	assert.Equal(t, 3, out.WordCount)
	assert.Equal(t, "hello", out.Slug)
	assert.Zero(t, out.RemoteID)

	_, _, err = server.handleGetPost(ctx, nil, GetPostInput{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServer_handleListPosts(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &Ports{})
	first, err := server.ports.Posts.Create(ctx, "Draft", "")
	require.NoError(t, err)
	_, err = server.ports.Posts.Create(ctx, "Published", "")
	require.NoError(t, err)
	published := domain.PostStatusPublished
	_, err = server.ports.Posts.Update(ctx, first.ID, domain.PostEdit{Status: &published})
	require.NoError(t, err)

	_, out, err := server.handleListPosts(ctx, nil, ListPostsInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)

	_, out, err = server.handleListPosts(ctx, nil, ListPostsInput{Status: "published"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, first.ID, out.Posts[0].ID)

	_, _, err = server.handleListPosts(ctx, nil, ListPostsInput{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServer_handleUpdatePost(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &Ports{})
	post, err := server.ports.Posts.Create(ctx, "Old", "<p>old</p>")
	require.NoError(t, err)

	_, out, err := server.handleUpdatePost(ctx, nil, UpdatePostInput{
		ID:      post.ID,
		Title:   ptr("New"),
		Content: ptr("fresh text"),
		Status:  ptr("scheduled"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New", out.Title)
	assert.Equal(t, "<p>fresh text</p>", out.HTML)
	assert.Equal(t, "scheduled", out.Status)

	_, _, err = server.handleUpdatePost(ctx, nil, UpdatePostInput{ID: post.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "an empty update is rejected")

	_, _, err = server.handleUpdatePost(ctx, nil, UpdatePostInput{ID: post.ID, Status: ptr("gone")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServer_handleSync(t *testing.T) {
	ctx := context.Background()
	sites := &mockSiteService{site: &domain.SiteConfiguration{ID: "site-1"}}

	tests := []struct {
		operation string
		want      string
	}{
		{"", "run:site-1"},
		{"run", "run:site-1"},
		{"pull", "pull:site-1"},
		{"push", "push:site-1"},
	}

	for _, tt := range tests {
		t.Run("op="+tt.operation, func(t *testing.T) {
			sync := &mockSyncService{report: &driving.SyncReport{Created: 1, Pushed: 2, LastError: errors.New("post 9: too large")}}
			server := newTestServer(t, &Ports{Sites: sites, Sync: sync})

			_, out, err := server.handleSync(ctx, nil, SyncInput{Operation: tt.operation})
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, sync.calls)
			assert.Equal(t, 1, out.Created)
			assert.Equal(t, 2, out.Pushed)
			assert.Equal(t, "post 9: too large", out.LastError)
		})
	}
}

func TestServer_handleSync_Errors(t *testing.T) {
	ctx := context.Background()

	server := newTestServer(t, &Ports{})
	_, _, err := server.handleSync(ctx, nil, SyncInput{})
	assert.ErrorIs(t, err, ErrSyncUnavailable)

	server = newTestServer(t, &Ports{Sites: &mockSiteService{}, Sync: &mockSyncService{}})
	_, _, err = server.handleSync(ctx, nil, SyncInput{})
	assert.ErrorIs(t, err, domain.ErrNoSite)

	_, _, err = server.handleSync(ctx, nil, SyncInput{Operation: "check"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	sync := &mockSyncService{err: domain.ErrSyncInProgress}
	server = newTestServer(t, &Ports{Sites: &mockSiteService{site: &domain.SiteConfiguration{ID: "s"}}, Sync: sync})
	_, _, err = server.handleSync(ctx, nil, SyncInput{})
	assert.ErrorIs(t, err, domain.ErrSyncInProgress)
}

func TestServer_handleProgress(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 6, 20, 0, 0, 0, time.UTC)

	server := newTestServer(t, &Ports{})
	_, _, err := server.handleProgress(ctx, nil, ProgressInput{})
	assert.ErrorIs(t, err, ErrGoalsUnavailable)

	tracker := services.NewGoalTracker(memory.NewSessionStore(), 300)
	require.NoError(t, tracker.Record(ctx, now, "", 320))
	server = newTestServer(t, &Ports{Goals: tracker})
	server.now = func() time.Time { return now }

	_, out, err := server.handleProgress(ctx, nil, ProgressInput{})
	require.NoError(t, err)
	assert.Equal(t, ProgressOutput{
		DailyGoal:     300,
		WordsToday:    320,
		WordsThisWeek: 320,
		CurrentStreak: 1,
		LongestStreak: 1,
		GoalMet:       true,
	}, out)
}
