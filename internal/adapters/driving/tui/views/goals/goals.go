// Package goals provides the writing goals view for the TUI.
package goals

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quill-editor/quill/internal/adapters/driving/tui/messages"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/styles"
	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driving"
)

const (
	historyDays = 7
	barWidth    = 30
)

// View shows today's progress, streaks and the last week.
type View struct {
	ctx      context.Context
	styles   *styles.Styles
	goals    driving.GoalService
	now      func() time.Time
	progress *domain.GoalProgress
	history  []domain.DailyTotal
	err      error
}

// NewView creates a new goals view.
func NewView(ctx context.Context, s *styles.Styles, goals driving.GoalService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{ctx: ctx, styles: s, goals: goals, now: time.Now}
}

// Init loads progress and history.
func (v *View) Init() tea.Cmd {
	if v.goals == nil {
		return nil
	}
	return func() tea.Msg {
		now := v.now()
		progress, err := v.goals.Progress(v.ctx, now)
		if err != nil {
			return messages.GoalsLoaded{Err: err}
		}
		history, err := v.goals.History(v.ctx, now, historyDays)
		return messages.GoalsLoaded{Progress: progress, History: history, Err: err}
	}
}

// Update handles messages for the goals view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.GoalsLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.progress = msg.Progress
			v.history = msg.History
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		case "r":
			return v, v.Init()
		case "q":
			return v, tea.Quit
		}
	}
	return v, nil
}

// View renders the goals.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Writing goals"))
	b.WriteString("\n\n")

	switch {
	case v.goals == nil:
		b.WriteString(v.styles.Muted.Render("Goal tracking is not available"))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.progress == nil:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	default:
		v.renderProgress(&b)
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[r] Refresh  [esc] Back  [q] Quit"))
	return b.String()
}

func (v *View) renderProgress(b *strings.Builder) {
	p := v.progress

	today := fmt.Sprintf("Today: %d words", p.WordsToday)
	if p.DailyGoal > 0 {
		today = fmt.Sprintf("Today: %d / %d words", p.WordsToday, p.DailyGoal)
	}
	if p.GoalMet() {
		b.WriteString(v.styles.Success.Render(today + "  goal met"))
	} else {
		b.WriteString(v.styles.Normal.Render(today))
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "This week: %d words\n", p.WordsThisWeek)
	fmt.Fprintf(b, "Streak: %d days (longest %d)\n\n", p.CurrentStreak, p.LongestStreak)

	peak := p.DailyGoal
	for _, d := range v.history {
		peak = max(peak, d.Words)
	}
	for _, d := range v.history {
		n := 0
		if peak > 0 {
			n = d.Words * barWidth / peak
		}
		bar := strings.Repeat("█", n)
		style := v.styles.Muted
		if p.DailyGoal > 0 && d.Words >= p.DailyGoal {
			style = v.styles.Success
		}
		fmt.Fprintf(b, "%s  %s %d\n", d.Date.Format("Mon 02"), style.Render(fmt.Sprintf("%-*s", barWidth, bar)), d.Words)
	}
}

// Progress returns the last loaded progress, or nil.
func (v *View) Progress() *domain.GoalProgress {
	return v.progress
}
