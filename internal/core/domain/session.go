package domain

import (
	"strings"
	"time"
)

// DefaultSessionContext is used when words are recorded without a context.
const DefaultSessionContext = "default"

// WritingSession is the number of words written on one calendar day in one
// authoring context. Recording again on the same day replaces the count.
type WritingSession struct {
	// Date is local midnight of the day.
	Date time.Time

	// Context groups sessions, e.g. a post id or "default".
	Context string

	WordsWritten int
}

// StartOfDay returns local midnight for t in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// CountWords counts whitespace-separated words in plain text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// GoalProgress summarises writing activity against the daily goal.
type GoalProgress struct {
	Today         time.Time
	DailyGoal     int
	WordsToday    int
	WordsThisWeek int
	// CurrentStreak counts consecutive days meeting the goal, ending today,
	// or yesterday if nothing has been written today yet.
	CurrentStreak int
	LongestStreak int
}

// GoalMet returns true if today's words reached the goal.
func (g GoalProgress) GoalMet() bool {
	return g.DailyGoal > 0 && g.WordsToday >= g.DailyGoal
}

// DailyTotal is the total words written on one day across contexts.
type DailyTotal struct {
	Date  time.Time
	Words int
}
