package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/quill-editor/quill/internal/core/domain"
)

// historyBarWidth is the width of the longest bar in `goals history`.
const historyBarWidth = 30

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Track daily writing goals",
	Long: `Record words written per day and follow progress against the daily goal
(config key goals.daily_words).`,
	RunE: runGoalsShow,
}

var goalsRecordCmd = &cobra.Command{
	Use:   "record [words]",
	Short: "Record words written today",
	Long: `Records the number of words written on a day. Recording again on the same
day and context replaces the earlier count.`,
	Args: cobra.ExactArgs(1),
	RunE: runGoalsRecord,
}

var goalsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show today's progress and streaks",
	RunE:  runGoalsShow,
}

var goalsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show words written per day",
	RunE:  runGoalsHistory,
}

var (
	goalsContext string
	goalsDate    string
	goalsDays    int
)

// goalsNow is replaced in tests.
var goalsNow = time.Now

func init() {
	goalsRecordCmd.Flags().StringVar(&goalsContext, "context", domain.DefaultSessionContext, "Session context, e.g. a post id")
	goalsRecordCmd.Flags().StringVar(&goalsDate, "date", "", "Day to record, YYYY-MM-DD (default today)")
	goalsHistoryCmd.Flags().IntVarP(&goalsDays, "days", "d", 7, "Number of days")

	goalsCmd.AddCommand(goalsRecordCmd)
	goalsCmd.AddCommand(goalsShowCmd)
	goalsCmd.AddCommand(goalsHistoryCmd)
	rootCmd.AddCommand(goalsCmd)
}

func runGoalsRecord(cmd *cobra.Command, args []string) error {
	if goalService == nil {
		return errors.New("goal service not configured")
	}

	words, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: words must be a number", domain.ErrInvalidInput)
	}

	at := goalsNow()
	if goalsDate != "" {
		at, err = time.ParseInLocation("2006-01-02", goalsDate, time.Local)
		if err != nil {
			return fmt.Errorf("%w: --date: %v", domain.ErrInvalidInput, err)
		}
	}

	if err := goalService.Record(commandContext(cmd), at, goalsContext, words); err != nil {
		return fmt.Errorf("failed to record: %w", err)
	}

	cmd.Printf("Recorded %d words for %s.\n", words, at.Format("2006-01-02"))
	return nil
}

func runGoalsShow(cmd *cobra.Command, _ []string) error {
	if goalService == nil {
		return errors.New("goal service not configured")
	}

	p, err := goalService.Progress(commandContext(cmd), goalsNow())
	if err != nil {
		return fmt.Errorf("failed to get progress: %w", err)
	}

	if p.DailyGoal > 0 {
		cmd.Printf("Today:     %d / %d words", p.WordsToday, p.DailyGoal)
		if p.GoalMet() {
			cmd.Print(" (goal met)")
		}
		cmd.Println()
	} else {
		cmd.Printf("Today:     %d words (no daily goal set)\n", p.WordsToday)
	}
	cmd.Printf("This week: %d words\n", p.WordsThisWeek)
	cmd.Printf("Streak:    %d days (longest %d)\n", p.CurrentStreak, p.LongestStreak)
	return nil
}

func runGoalsHistory(cmd *cobra.Command, _ []string) error {
	if goalService == nil {
		return errors.New("goal service not configured")
	}

	totals, err := goalService.History(commandContext(cmd), goalsNow(), goalsDays)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	most := 0
	for _, t := range totals {
		most = max(most, t.Words)
	}

	bar := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	for _, t := range totals {
		width := 0
		if most > 0 {
			width = t.Words * historyBarWidth / most
		}
		cmd.Printf("%s  %6d  %s\n", t.Date.Format("Mon 01-02"), t.Words, bar.Render(strings.Repeat("█", width)))
	}
	return nil
}
