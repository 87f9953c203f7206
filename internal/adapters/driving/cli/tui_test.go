package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-editor/quill/internal/adapters/driving/tui"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/messages"
	"github.com/quill-editor/quill/internal/core/domain"
)

// stubTUI replaces the program runner and captures the app.
func stubTUI(t *testing.T, err error) **tui.App {
	t.Helper()
	var got *tui.App
	old := runTUI
	runTUI = func(app *tui.App) error {
		got = app
		return err
	}
	t.Cleanup(func() { runTUI = old })
	return &got
}

func TestEditCmd_Metadata(t *testing.T) {
	assert.Equal(t, "edit [post-id]", editCmd.Use)
	assert.Contains(t, editCmd.Aliases, "tui")
}

func TestEdit_StartsOnMenu(t *testing.T) {
	setupServices(t)
	got := stubTUI(t, nil)

	_, err := executeCommand(t, "edit")
	require.NoError(t, err)
	require.NotNil(t, *got)
	assert.Equal(t, messages.ViewMenu, (*got).CurrentView())
}

func TestEdit_OpensPost(t *testing.T) {
	setupServices(t)
	got := stubTUI(t, nil)
	_, err := executeCommand(t, "post", "new", "-t", "Open me", "-c", "body")
	require.NoError(t, err)
	post := onlyPost(t)

	_, err = executeCommand(t, "tui", post.ID[:8])
	require.NoError(t, err)
	require.NotNil(t, *got)

	app := *got
	app.Init()
	assert.Equal(t, messages.ViewEditor, app.CurrentView())
	assert.Equal(t, post.ID, app.Editor().Post().ID)
}

func TestEdit_UnknownPost(t *testing.T) {
	setupServices(t)
	got := stubTUI(t, nil)

	_, err := executeCommand(t, "edit", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, *got, "the editor does not start")
}

func TestEdit_RunError(t *testing.T) {
	setupServices(t)
	stubTUI(t, errors.New("no tty"))

	_, err := executeCommand(t, "edit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "editor error: no tty")
}

func TestEdit_RecoversPanic(t *testing.T) {
	setupServices(t)
	old := runTUI
	runTUI = func(*tui.App) error { panic("boom") }
	t.Cleanup(func() { runTUI = old })

	_, err := executeCommand(t, "edit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "editor crashed: boom")
}

func TestEdit_NotConfigured(t *testing.T) {
	SetServices(Services{})

	_, err := executeCommand(t, "edit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post service not configured")
}
