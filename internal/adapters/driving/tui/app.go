package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quill-editor/quill/internal/adapters/driving/tui/messages"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/styles"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/views/editor"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/views/goals"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/views/menu"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/views/posts"
	"github.com/quill-editor/quill/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView   *menu.View
	postsView  *posts.View
	editorView *editor.View
	goalsView  *goals.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// initial is opened in the editor on start, if set.
	initial *domain.Post

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ctx context.Context, ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s := styles.DefaultStyles()
	return &App{
		ports:       ports,
		ctx:         ctx,
		styles:      s,
		menuView:    menu.NewView(s),
		postsView:   posts.NewView(ctx, s, ports.Posts, ports.Sync, ports.Sites),
		editorView:  editor.NewView(ctx, s, ports.Posts, ports.Goals),
		goalsView:   goals.NewView(ctx, s, ports.Goals),
		currentView: messages.ViewMenu,
	}, nil
}

// OpenPost starts the app in the editor for p.
func (a *App) OpenPost(p *domain.Post) *App {
	a.initial = p
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("quill"), a.loadSite()}
	if a.initial != nil {
		a.editorView.Open(a.initial)
		a.currentView = messages.ViewEditor
	}
	return tea.Batch(cmds...)
}

// siteLoaded carries the connected site's URL for the menu.
type siteLoaded struct {
	url string
}

func (a *App) loadSite() tea.Cmd {
	if a.ports.Sites == nil {
		return nil
	}
	return func() tea.Msg {
		site, err := a.ports.Sites.Current(a.ctx)
		if err != nil {
			return siteLoaded{}
		}
		return siteLoaded{url: site.SiteURL}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.forwardKey(msg)

	case siteLoaded:
		a.menuView.SetSite(msg.url)
		return a, nil

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.PostSelected:
		a.editorView.Open(msg.Post)
		a.currentView = messages.ViewEditor
		return a, nil

	case messages.PostCreated:
		if msg.Err != nil {
			a.err = msg.Err
			a.postsView, cmd = a.postsView.Update(msg)
			return a, cmd
		}
		a.editorView.Open(msg.Post)
		a.currentView = messages.ViewEditor
		return a, nil

	case messages.PostSaved:
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.editorView, cmd = a.editorView.Update(msg)
		return a, cmd

	case messages.PostsLoaded, messages.SyncCompleted:
		a.postsView, cmd = a.postsView.Update(msg)
		return a, cmd

	case messages.GoalsLoaded:
		a.goalsView, cmd = a.goalsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

// forwardKey sends a key to the active view.
func (a *App) forwardKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewPosts:
		a.postsView, cmd = a.postsView.Update(msg)
	case messages.ViewEditor:
		a.editorView, cmd = a.editorView.Update(msg)
	case messages.ViewGoals:
		a.goalsView, cmd = a.goalsView.Update(msg)
	case messages.ViewHelp:
		switch msg.String() {
		case "esc":
			a.currentView = messages.ViewMenu
		case "q":
			cmd = tea.Quit
		}
	}
	return cmd
}

// switchTo activates a view and runs its loader.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewPosts:
		return a.postsView.Init()
	case messages.ViewGoals:
		return a.goalsView.Init()
	case messages.ViewMenu, messages.ViewEditor, messages.ViewHelp:
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewPosts:
		return a.postsView.View()
	case messages.ViewEditor:
		return a.editorView.View()
	case messages.ViewGoals:
		return a.goalsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Posts:
  j/k, ↑/↓    Navigate
  enter       Open in editor
  n           New post
  s           Sync with the connected site
  r           Refresh

Editor:
  /           Open the block menu (↑/↓ choose, enter apply, esc close)
  ↑/↓         Previous/next block
  enter       New block or list item
  backspace   Delete, or merge with the previous block
  tab         Indent list item
  alt+↑/↓     Move block
  ctrl+d      Duplicate block
  ctrl+k      Delete block
  ctrl+t      Edit title
  ctrl+s      Save
  esc         Save and go back

  ctrl+c      Quit

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Editor returns the editor view.
func (a *App) Editor() *editor.View {
	return a.editorView
}

// Posts returns the post list view.
func (a *App) Posts() *posts.View {
	return a.postsView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.postsView.SetDimensions(width, height)
	a.editorView.SetDimensions(width, height)
}
