package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-editor/quill/internal/adapters/driven/storage/memory"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/messages"
	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driving"
	"github.com/quill-editor/quill/internal/core/services"
)

// MockSiteService implements driving.SiteService for testing.
type MockSiteService struct {
	driving.SiteService
	CurrentFunc func(ctx context.Context) (*domain.SiteConfiguration, error)
}

func (m *MockSiteService) Current(ctx context.Context) (*domain.SiteConfiguration, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx)
	}
	return nil, domain.ErrNoSite
}

func newTestApp(t *testing.T) (*App, *services.PostService) {
	t.Helper()
	posts := services.NewPostService(memory.NewPostStore(), memory.NewSiteStore(), memory.NewSecretStore(), nil, nil, nil)
	app, err := NewApp(context.Background(), &Ports{
		Posts: posts,
		Sites: &MockSiteService{},
		Goals: services.NewGoalTracker(memory.NewSessionStore(), 500),
	})
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app, posts
}

// drive feeds msg to the app and then every message its commands produce,
// stopping at batches and sequences.
func drive(app *App, msg tea.Msg) {
	for msg != nil {
		_, cmd := app.Update(msg)
		if cmd == nil {
			return
		}
		msg = cmd()
	}
}

func TestPorts_Validate(t *testing.T) {
	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrInvalidPorts)
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingPostService)

	posts := services.NewPostService(memory.NewPostStore(), memory.NewSiteStore(), memory.NewSecretStore(), nil, nil, nil)
	assert.NoError(t, (&Ports{Posts: posts}).Validate())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	_, err := NewApp(context.Background(), &Ports{})
	assert.ErrorIs(t, err, ErrMissingPostService)
}

func TestApp_StartsOnMenu(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.Contains(t, app.View(), "Quill")
	assert.NotNil(t, app.Init())
}

func TestApp_NotReadyUntilSized(t *testing.T) {
	posts := services.NewPostService(memory.NewPostStore(), memory.NewSiteStore(), memory.NewSecretStore(), nil, nil, nil)
	app, err := NewApp(context.Background(), &Ports{Posts: posts})
	require.NoError(t, err)

	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.True(t, app.Ready())
}

func TestApp_ShowsConnectedSite(t *testing.T) {
	app, _ := newTestApp(t)
	app.ports.Sites = &MockSiteService{CurrentFunc: func(context.Context) (*domain.SiteConfiguration, error) {
		return &domain.SiteConfiguration{SiteURL: "https://blog.example"}, nil
	}}

	drive(app, app.loadSite()())
	assert.Contains(t, app.View(), "Connected to https://blog.example")
}

func TestApp_NewPostOpensEditor(t *testing.T) {
	app, posts := newTestApp(t)

	drive(app, messages.ViewChanged{View: messages.ViewPosts})
	assert.Equal(t, messages.ViewPosts, app.CurrentView())
	assert.Contains(t, app.View(), "No posts yet")

	drive(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.Equal(t, messages.ViewEditor, app.CurrentView())
	require.NotNil(t, app.Editor().Post())

	drive(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
	drive(app, tea.KeyMsg{Type: tea.KeyCtrlS})

	stored, err := posts.Get(context.Background(), app.Editor().Post().ID)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", stored.Content)
	assert.NoError(t, app.Err())
}

func TestApp_SelectPostFromList(t *testing.T) {
	app, posts := newTestApp(t)
	_, err := posts.Create(context.Background(), "Existing", "<p>body</p>")
	require.NoError(t, err)

	drive(app, messages.ViewChanged{View: messages.ViewPosts})
	drive(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, messages.ViewEditor, app.CurrentView())
	assert.Equal(t, "Existing", app.Editor().Title())
	assert.Contains(t, app.View(), "body")

	drive(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewPosts, app.CurrentView())
}

func TestApp_OpenPost(t *testing.T) {
	app, posts := newTestApp(t)
	post, err := posts.Create(context.Background(), "Direct", "")
	require.NoError(t, err)

	app.OpenPost(post).Init()
	assert.Equal(t, messages.ViewEditor, app.CurrentView())
	assert.Equal(t, "Direct", app.Editor().Title())
}

func TestApp_GoalsView(t *testing.T) {
	app, _ := newTestApp(t)

	drive(app, messages.ViewChanged{View: messages.ViewGoals})
	assert.Equal(t, messages.ViewGoals, app.CurrentView())
	assert.Contains(t, app.View(), "Today: 0 / 500 words")
}

func TestApp_HelpView(t *testing.T) {
	app, _ := newTestApp(t)

	drive(app, messages.ViewChanged{View: messages.ViewHelp})
	assert.Contains(t, app.View(), "Open the block menu")

	drive(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.ErrorOccurred{Err: domain.ErrNotFound})
	assert.ErrorIs(t, app.Err(), domain.ErrNotFound)
}
