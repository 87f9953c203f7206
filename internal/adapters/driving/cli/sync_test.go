package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-editor/quill/internal/core/domain"
)

func TestSyncPull(t *testing.T) {
	env := setupServices(t)
	env.connect(t)
	env.remote.put(domain.RemotePost{ID: 1, Title: "One", Content: "<p>1</p>", Status: "publish"})
	env.remote.put(domain.RemotePost{ID: 2, Title: "Two", Content: "<p>2</p>", Status: "draft"})

	out, err := executeCommand(t, "sync", "pull")
	require.NoError(t, err)
	assert.Contains(t, out, "Pulling...")
	assert.Contains(t, out, "Created 2, updated 0, uploaded 0, pushed 0.")
}

func TestSyncPush(t *testing.T) {
	env := setupServices(t)
	env.connect(t)
	_, err := executeCommand(t, "post", "new", "-t", "Fresh", "-c", "body")
	require.NoError(t, err)

	out, err := executeCommand(t, "sync", "push")
	require.NoError(t, err)
	assert.Contains(t, out, "Created 0, updated 0, uploaded 1, pushed 0.")

	post := onlyPost(t)
	require.NotNil(t, post.RemoteID)
	assert.Equal(t, domain.SyncStatusSynced, post.SyncStatus)
	assert.Equal(t, "<p>body</p>", env.remote.posts[*post.RemoteID].Content)
}

func TestSyncRun(t *testing.T) {
	env := setupServices(t)
	env.connect(t)
	env.remote.put(domain.RemotePost{ID: 1, Title: "Remote", Content: "<p>r</p>", Status: "publish"})
	_, err := executeCommand(t, "post", "new", "-t", "Local")
	require.NoError(t, err)

	out, err := executeCommand(t, "sync", "run")
	require.NoError(t, err)
	assert.Contains(t, out, "Synchronising...")
	assert.Contains(t, out, "Created 1, updated 0, uploaded 1, pushed 0.")
	assert.Len(t, env.remote.posts, 2)
}

func TestSyncCheck(t *testing.T) {
	env := setupServices(t)
	env.connect(t)

	out, err := executeCommand(t, "sync", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "No posts.")

	env.remote.put(domain.RemotePost{ID: 3, Title: "Checked", Content: "<p>c</p>", Status: "publish"})
	_, err = executeCommand(t, "sync", "pull")
	require.NoError(t, err)

	out, err = executeCommand(t, "sync", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "STATE")
	assert.Contains(t, out, "Checked")
}

func TestSyncStatus(t *testing.T) {
	env := setupServices(t)
	env.connect(t)

	out, err := executeCommand(t, "sync", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Idle")
}

func TestSync_NoSite(t *testing.T) {
	setupServices(t)

	for _, op := range []string{"pull", "push", "run", "check", "status"} {
		_, err := executeCommand(t, "sync", op)
		assert.ErrorIs(t, err, domain.ErrNoSite, op)
	}
}

func TestSync_NotConfigured(t *testing.T) {
	SetServices(Services{})

	_, err := executeCommand(t, "sync", "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync service not configured")
}

func TestSyncWithProgress_PrintsReport(t *testing.T) {
	old := statusPollInterval
	statusPollInterval = time.Millisecond
	t.Cleanup(func() { statusPollInterval = old })

	env := setupServices(t)
	env.connect(t)
	for i := int64(1); i <= 5; i++ {
		env.remote.put(domain.RemotePost{ID: i, Title: "P", Content: "<p>x</p>", Status: "publish"})
	}

	out, err := executeCommand(t, "sync", "pull")
	require.NoError(t, err)
	assert.Contains(t, out, "Created 5")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "12345678", shortID("12345678-aaaa"))
	assert.Equal(t, "abc", shortID("abc"))
}
