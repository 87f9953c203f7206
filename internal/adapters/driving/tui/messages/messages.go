// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewPosts lists local posts.
	ViewPosts
	// ViewEditor is the block editor for one post.
	ViewEditor
	// ViewGoals shows writing progress.
	ViewGoals
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewPosts:
		return "posts"
	case ViewEditor:
		return "editor"
	case ViewGoals:
		return "goals"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// PostsLoaded carries the list of local posts.
type PostsLoaded struct {
	Posts []*domain.Post
	Err   error
}

// PostSelected asks the app to open a post in the editor.
type PostSelected struct {
	Post *domain.Post
}

// PostCreated signals a new post was created.
type PostCreated struct {
	Post *domain.Post
	Err  error
}

// PostSaved signals the editor's content was written.
type PostSaved struct {
	Post *domain.Post
	Err  error
}

// SyncCompleted carries the outcome of a sync started from the TUI.
type SyncCompleted struct {
	Report *driving.SyncReport
	Err    error
}

// GoalsLoaded carries the writing progress and recent history.
type GoalsLoaded struct {
	Progress *domain.GoalProgress
	History  []domain.DailyTotal
	Err      error
}
