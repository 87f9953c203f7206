package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-editor/quill/internal/core/domain"
)

// onlyPost returns the single stored post.
func onlyPost(t *testing.T) *domain.Post {
	t.Helper()
	posts, err := postService.List(context.Background(), domain.PostFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	return posts[0]
}

func TestPostNew_Offline(t *testing.T) {
	setupServices(t)

	out, err := executeCommand(t, "post", "new", "-t", "Hello World", "-c", "one\n\ntwo")
	require.NoError(t, err)

	post := onlyPost(t)
	assert.Contains(t, out, "Created post "+post.ID+" (local).")
	assert.Equal(t, "Hello World", post.Title)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, "<p>one</p>\n<p>two</p>", post.Content)
	assert.Equal(t, domain.SyncStatusLocal, post.SyncStatus)
}

func TestPostNew_Connected(t *testing.T) {
	env := setupServices(t)
	env.connect(t)

	out, err := executeCommand(t, "post", "new", "-t", "Queued", "--html", "<h2>Head</h2>")
	require.NoError(t, err)
	assert.Contains(t, out, "(pending_upload)")

	post := onlyPost(t)
	assert.Equal(t, "<h2>Head</h2>", post.Content)
	assert.Equal(t, domain.SyncStatusPendingUpload, post.SyncStatus)
}

func TestPostList(t *testing.T) {
	setupServices(t)

	out, err := executeCommand(t, "post", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No posts.")

	_, err = executeCommand(t, "post", "new", "-t", "First post")
	require.NoError(t, err)
	_, err = executeCommand(t, "post", "new")
	require.NoError(t, err)

	out, err = executeCommand(t, "post", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "First post")
	assert.Contains(t, out, "(untitled)")
	assert.Contains(t, out, "draft")

	out, err = executeCommand(t, "post", "list", "--status", "published")
	require.NoError(t, err)
	assert.Contains(t, out, "No posts.")

	_, err = executeCommand(t, "post", "list", "--status", "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPostShow(t *testing.T) {
	setupServices(t)
	_, err := executeCommand(t, "post", "new", "-t", "Shown", "-c", "three little words")
	require.NoError(t, err)
	post := onlyPost(t)

	out, err := executeCommand(t, "post", "show", post.ID[:6])
	require.NoError(t, err)
	assert.Contains(t, out, "ID:       "+post.ID)
	assert.Contains(t, out, "Title:    Shown")
	assert.Contains(t, out, "Words:    3")
	assert.Contains(t, out, "three little words")
	assert.NotContains(t, out, "<p>")

	out, err = executeCommand(t, "post", "show", post.ID, "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "<p>three little words</p>")
}

func TestPostShow_NotFound(t *testing.T) {
	setupServices(t)

	_, err := executeCommand(t, "post", "show", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostEdit(t *testing.T) {
	setupServices(t)
	_, err := executeCommand(t, "post", "new", "-t", "Before")
	require.NoError(t, err)
	post := onlyPost(t)

	out, err := executeCommand(t, "post", "edit", post.ID,
		"-t", "After", "-c", "new body", "--status", "published", "--publish-at", "2026-05-01T09:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated post "+shortID(post.ID))

	edited := onlyPost(t)
	assert.Equal(t, "After", edited.Title)
	assert.Equal(t, "<p>new body</p>", edited.Content)
	assert.Equal(t, domain.PostStatusPublished, edited.Status)
	require.NotNil(t, edited.PublishedAt)
	assert.Equal(t, 2026, edited.PublishedAt.Year())
}

func TestPostEdit_Errors(t *testing.T) {
	setupServices(t)
	_, err := executeCommand(t, "post", "new", "-t", "Post")
	require.NoError(t, err)
	post := onlyPost(t)

	_, err = executeCommand(t, "post", "edit", post.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")

	_, err = executeCommand(t, "post", "edit", post.ID, "--publish-at", "tomorrow")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = executeCommand(t, "post", "edit", post.ID, "--status", "gone")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPostDelete(t *testing.T) {
	setupServices(t)
	_, err := executeCommand(t, "post", "new", "-t", "Doomed")
	require.NoError(t, err)
	post := onlyPost(t)

	out, err := executeCommandWithInput(t, "no\n", "post", "delete", post.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "This post has changes that were never pushed.")
	assert.Contains(t, out, "Aborted.")
	onlyPost(t)

	out, err = executeCommand(t, "post", "delete", post.ID, "-y")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted post "+shortID(post.ID)+".")

	posts, err := postService.List(context.Background(), domain.PostFilter{})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostDelete_Remote(t *testing.T) {
	env := setupServices(t)
	env.connect(t)
	env.remote.put(domain.RemotePost{ID: 7, Title: "Remote", Content: "<p>x</p>", Status: "publish"})
	_, err := executeCommand(t, "sync", "pull")
	require.NoError(t, err)
	post := onlyPost(t)

	_, err = executeCommand(t, "post", "delete", post.ID, "--remote", "--yes")
	require.NoError(t, err)
	assert.Empty(t, env.remote.posts)
}

func TestPostImport(t *testing.T) {
	setupServices(t)
	dir := t.TempDir()

	titled := filepath.Join(dir, "titled.md")
	require.NoError(t, os.WriteFile(titled, []byte("# From Markdown\n\nSome *text*.\n"), 0o600))
	out, err := executeCommand(t, "post", "import", titled)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported "+titled)

	post := onlyPost(t)
	assert.Equal(t, "From Markdown", post.Title)
	assert.Equal(t, "<p>Some <em>text</em>.</p>", post.Content)

	untitled := filepath.Join(dir, "my_second-post.md")
	require.NoError(t, os.WriteFile(untitled, []byte("Replaced body\n"), 0o600))
	_, err = executeCommand(t, "post", "import", untitled, "--post", post.ID[:8])
	require.NoError(t, err)

	replaced := onlyPost(t)
	assert.Equal(t, post.ID, replaced.ID)
	assert.Equal(t, "my second post", replaced.Title)
	assert.Equal(t, "<p>Replaced body</p>", replaced.Content)
}

func TestPostImport_MissingFile(t *testing.T) {
	setupServices(t)

	_, err := executeCommand(t, "post", "import", filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}

func TestPostResolve(t *testing.T) {
	env := setupServices(t)
	env.connect(t)
	env.remote.put(domain.RemotePost{ID: 9, Title: "Shared", Content: "<p>v1</p>", Status: "publish"})
	_, err := executeCommand(t, "sync", "pull")
	require.NoError(t, err)
	post := onlyPost(t)

	_, err = executeCommand(t, "post", "resolve", post.ID)
	require.Error(t, err, "--keep is required")

	_, err = executeCommand(t, "post", "resolve", post.ID, "--keep", "sideways")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = executeCommand(t, "post", "edit", post.ID, "-c", "local v2")
	require.NoError(t, err)
	env.remote.put(domain.RemotePost{ID: 9, Title: "Shared", Content: "<p>remote v2</p>", Status: "publish"})

	out, err := executeCommand(t, "post", "resolve", post.ID, "--keep", "remote")
	require.NoError(t, err)
	assert.Contains(t, out, "kept remote copy (synced)")

	resolved := onlyPost(t)
	assert.Equal(t, "<p>remote v2</p>", resolved.Content)
	assert.False(t, resolved.HasUnsavedChanges())
}

func TestFindPost_Ambiguous(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	for _, id := range []string{"abc-1", "abc-2"} {
		require.NoError(t, env.posts.Save(ctx, &domain.Post{ID: id, Title: id, Status: domain.PostStatusDraft}))
	}

	_, err := findPost(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	post, err := findPost(ctx, "abc-2")
	require.NoError(t, err)
	assert.Equal(t, "abc-2", post.ID)
}

func TestPostCommands_NotConfigured(t *testing.T) {
	SetServices(Services{})

	for _, args := range [][]string{
		{"post", "new"},
		{"post", "list"},
		{"post", "show", "x"},
		{"post", "edit", "x", "-t", "y"},
		{"post", "delete", "x", "-y"},
		{"post", "import", "x.md"},
	} {
		_, err := executeCommand(t, args...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "post service not configured")
	}
}
