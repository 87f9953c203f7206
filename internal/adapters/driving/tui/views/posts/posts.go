// Package posts provides the post list view for the TUI.
package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quill-editor/quill/internal/adapters/driving/tui/components/list"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/components/status"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/keymap"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/messages"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/styles"
	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driving"
)

// View lists local posts and starts syncs.
type View struct {
	ctx     context.Context
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	posts   driving.PostService
	sync    driving.SyncService
	sites   driving.SiteService
	list    *list.PostList
	status  *status.Bar
	syncing bool
	width   int
	height  int
}

// NewView creates a new post list view. sync and sites may be nil, in
// which case syncing is unavailable.
func NewView(
	ctx context.Context,
	s *styles.Styles,
	posts driving.PostService,
	sync driving.SyncService,
	sites driving.SiteService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetBindings(km.PostsHelp())

	return &View{
		ctx:    ctx,
		styles: s,
		keymap: km,
		posts:  posts,
		sync:   sync,
		sites:  sites,
		list:   list.NewPostList(s),
		status: bar,
		width:  80,
		height: 24,
	}
}

// Init loads the posts.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// load fetches every local post.
func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		posts, err := v.posts.List(v.ctx, domain.PostFilter{})
		return messages.PostsLoaded{Posts: posts, Err: err}
	}
}

// Update handles messages for the post list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.PostsLoaded:
		if msg.Err != nil {
			v.showError(msg.Err)
			return v, nil
		}
		v.list.SetPosts(msg.Posts)
		if !v.syncing && v.status.State() != status.StateError {
			v.status.SetMessage(fmt.Sprintf("%d posts", len(msg.Posts)))
		}
		return v, nil

	case messages.PostCreated:
		if msg.Err != nil {
			v.showError(msg.Err)
		}
		return v, nil

	case messages.SyncCompleted:
		v.syncing = false
		if msg.Err != nil {
			v.showError(msg.Err)
		} else {
			v.status.SetState(status.StateReady)
			v.status.SetMessage(summarise(msg.Report))
		}
		return v, v.load()

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

// handleKey processes keyboard input.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch key := msg.String(); {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }

	case keymap.Matches(key, v.keymap.Select):
		if p := v.list.SelectedPost(); p != nil {
			return v, func() tea.Msg { return messages.PostSelected{Post: p} }
		}
		return v, nil

	case keymap.Matches(key, v.keymap.New):
		return v, func() tea.Msg {
			p, err := v.posts.Create(v.ctx, "", "")
			return messages.PostCreated{Post: p, Err: err}
		}

	case keymap.Matches(key, v.keymap.Sync):
		return v, v.startSync()

	case keymap.Matches(key, v.keymap.Refresh):
		v.status.Clear()
		return v, v.load()

	case key == "q":
		return v, tea.Quit
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// startSync runs a full sync against the connected site.
func (v *View) startSync() tea.Cmd {
	if v.sync == nil || v.sites == nil {
		v.showError(domain.ErrNoSite)
		return nil
	}
	if v.syncing {
		return nil
	}
	v.syncing = true
	v.status.SetState(status.StateSyncing)

	return func() tea.Msg {
		site, err := v.sites.Current(v.ctx)
		if err != nil {
			return messages.SyncCompleted{Err: err}
		}
		report, err := v.sync.Sync(v.ctx, site.ID)
		return messages.SyncCompleted{Report: report, Err: err}
	}
}

func (v *View) showError(err error) {
	v.status.SetState(status.StateError)
	if errors.Is(err, domain.ErrNoSite) {
		v.status.SetMessage("no site connected")
		return
	}
	v.status.SetMessage(err.Error())
}

// summarise renders a sync report as one line.
func summarise(r *driving.SyncReport) string {
	if r == nil {
		return "Sync finished"
	}
	parts := []string{
		fmt.Sprintf("%d pulled", r.Created+r.Updated),
		fmt.Sprintf("%d pushed", r.Uploaded+r.Pushed),
	}
	if r.Discarded > 0 {
		parts = append(parts, fmt.Sprintf("%d local edits discarded", r.Discarded))
	}
	if r.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", r.Failed))
	}
	return "Synced: " + strings.Join(parts, ", ")
}

// View renders the post list.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Posts"))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())
	b.WriteString("\n\n")
	b.WriteString(v.status.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-5)
	v.status.SetWidth(width)
}

// Selected returns the highlighted post, or nil.
func (v *View) Selected() *domain.Post {
	return v.list.SelectedPost()
}

// Syncing reports whether a sync started here is still running.
func (v *View) Syncing() bool {
	return v.syncing
}

// Status returns the view's status bar.
func (v *View) Status() *status.Bar {
	return v.status
}
