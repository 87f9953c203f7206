package list

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/quill-editor/quill/internal/core/domain"
)

func makePosts(n int) []*domain.Post {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	posts := make([]*domain.Post, n)
	for i := range posts {
		posts[i] = domain.NewPost(fmt.Sprintf("post-%d", i), fmt.Sprintf("Post %d", i), "<p>x</p>", now)
	}
	return posts
}

func TestPostList_Empty(t *testing.T) {
	l := NewPostList(nil)

	assert.Nil(t, l.SelectedPost())
	assert.Contains(t, l.View(), "No posts yet")
}

func TestPostList_View(t *testing.T) {
	posts := makePosts(2)
	posts[1].Title = "  "
	posts[1].SyncStatus = domain.SyncStatusConflict

	l := NewPostList(nil)
	l.SetPosts(posts)

	view := l.View()
	assert.Contains(t, view, "Posts (2)")
	assert.Contains(t, view, "> Post 0")
	assert.Contains(t, view, "(untitled)")
	assert.Contains(t, view, "conflict")
	assert.Contains(t, view, "draft")
}

func TestPostList_TruncatesLongTitles(t *testing.T) {
	posts := makePosts(1)
	posts[0].Title = "A very long title that keeps going well past the width of the list"

	l := NewPostList(nil)
	l.SetDimensions(50, 10)
	l.SetPosts(posts)

	assert.Contains(t, l.View(), "A very long tit...")
}

func TestPostList_Navigation(t *testing.T) {
	l := NewPostList(nil)
	l.SetPosts(makePosts(3))

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, l.Selected(), "selection stops at the last post")
	assert.Equal(t, "post-2", l.SelectedPost().ID)

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 1, l.Selected())
}

func TestPostList_SetPostsClampsSelection(t *testing.T) {
	l := NewPostList(nil)
	l.SetPosts(makePosts(5))
	l.MoveDown()
	l.MoveDown()
	l.MoveDown()

	l.SetPosts(makePosts(2))
	assert.Equal(t, 1, l.Selected())

	l.SetPosts(nil)
	assert.Equal(t, 0, l.Selected())
	assert.Zero(t, l.Count())
}

func TestPostList_ScrollsToSelection(t *testing.T) {
	l := NewPostList(nil)
	l.SetDimensions(80, 4)
	l.SetPosts(makePosts(6))
	for range 5 {
		l.MoveDown()
	}

	view := l.View()
	assert.Contains(t, view, "Post 5")
	assert.NotContains(t, view, "Post 0")
}
