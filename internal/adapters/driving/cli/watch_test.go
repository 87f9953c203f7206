package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFile_CallsOnChange(t *testing.T) {
	old := watchDebounce
	watchDebounce = 10 * time.Millisecond
	t.Cleanup(func() { watchDebounce = old })

	dir := t.TempDir()
	path := filepath.Join(dir, "draft.md")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, func() { changed <- struct{}{} })
	}()

	// The watcher starts asynchronously; keep writing until it notices.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("two"), 0o600)
		select {
		case <-changed:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watchFile did not return after cancel")
	}
}

func TestWatchFile_IgnoresOtherFiles(t *testing.T) {
	old := watchDebounce
	watchDebounce = 10 * time.Millisecond
	t.Cleanup(func() { watchDebounce = old })

	dir := t.TempDir()
	path := filepath.Join(dir, "draft.md")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	calls := 0
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "other.md"), []byte("x"), 0o600)
	}()
	require.NoError(t, watchFile(ctx, path, func() { calls++ }))
	assert.Zero(t, calls)
}

func TestWatchFile_MissingDirectory(t *testing.T) {
	err := watchFile(context.Background(), filepath.Join(t.TempDir(), "nope", "draft.md"), func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching")
}
