package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
	"github.com/quill-editor/quill/internal/core/ports/driving"
)

// Ensure GoalTracker implements the interface.
var _ driving.GoalService = (*GoalTracker)(nil)

const dayKeyLayout = "2006-01-02"

// GoalTracker tracks words written per day against a daily goal.
// Days are calendar days in the location of the time passed in.
type GoalTracker struct {
	sessions  driven.SessionStore
	dailyGoal int
}

// NewGoalTracker creates a new goal tracker. A goal of zero or less means
// no day ever meets it, so streaks stay at zero.
func NewGoalTracker(sessions driven.SessionStore, dailyGoal int) *GoalTracker {
	return &GoalTracker{sessions: sessions, dailyGoal: dailyGoal}
}

// Record sets the words written on the day of at for a context.
func (g *GoalTracker) Record(ctx context.Context, at time.Time, sessionContext string, words int) error {
	if words < 0 {
		return fmt.Errorf("%w: word count must not be negative", domain.ErrInvalidInput)
	}
	sessionContext = strings.TrimSpace(sessionContext)
	if sessionContext == "" {
		sessionContext = domain.DefaultSessionContext
	}

	return g.sessions.Save(ctx, domain.WritingSession{
		Date:         domain.StartOfDay(at),
		Context:      sessionContext,
		WordsWritten: words,
	})
}

// Progress summarises today, this week and streaks as of now.
func (g *GoalTracker) Progress(ctx context.Context, now time.Time) (*domain.GoalProgress, error) {
	sessions, err := g.sessions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	totals := dailyTotals(sessions, now.Location())

	today := domain.StartOfDay(now)
	progress := &domain.GoalProgress{
		Today:      today,
		DailyGoal:  g.dailyGoal,
		WordsToday: totals[today.Format(dayKeyLayout)],
	}

	for day := domain.StartOfWeek(now); !day.After(today); day = day.AddDate(0, 0, 1) {
		progress.WordsThisWeek += totals[day.Format(dayKeyLayout)]
	}

	// Today still counts as in progress, so an unmet goal today does not
	// break a streak that ended yesterday.
	day := today
	if !g.met(totals[day.Format(dayKeyLayout)]) {
		day = day.AddDate(0, 0, -1)
	}
	for g.met(totals[day.Format(dayKeyLayout)]) {
		progress.CurrentStreak++
		day = day.AddDate(0, 0, -1)
	}

	progress.LongestStreak = g.longestStreak(totals, now.Location())
	if progress.CurrentStreak > progress.LongestStreak {
		progress.LongestStreak = progress.CurrentStreak
	}
	return progress, nil
}

// History returns one total per day for the last n days, oldest first.
// Days without sessions are included with zero words.
func (g *GoalTracker) History(ctx context.Context, now time.Time, days int) ([]domain.DailyTotal, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", domain.ErrInvalidInput)
	}

	today := domain.StartOfDay(now)
	from := today.AddDate(0, 0, -(days - 1))
	sessions, err := g.sessions.ListRange(ctx, from, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	totals := dailyTotals(sessions, now.Location())

	history := make([]domain.DailyTotal, 0, days)
	for day := from; !day.After(today); day = day.AddDate(0, 0, 1) {
		history = append(history, domain.DailyTotal{
			Date:  day,
			Words: totals[day.Format(dayKeyLayout)],
		})
	}
	return history, nil
}

func (g *GoalTracker) met(words int) bool {
	return g.dailyGoal > 0 && words >= g.dailyGoal
}

func (g *GoalTracker) longestStreak(totals map[string]int, loc *time.Location) int {
	var days []time.Time
	for key, words := range totals {
		if !g.met(words) {
			continue
		}
		day, err := time.ParseInLocation(dayKeyLayout, key, loc)
		if err != nil {
			continue
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 0, 0
	for i, day := range days {
		if i > 0 && days[i-1].AddDate(0, 0, 1).Equal(day) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// dailyTotals sums words per calendar day across contexts.
func dailyTotals(sessions []domain.WritingSession, loc *time.Location) map[string]int {
	totals := make(map[string]int)
	for _, s := range sessions {
		totals[s.Date.In(loc).Format(dayKeyLayout)] += s.WordsWritten
	}
	return totals
}
