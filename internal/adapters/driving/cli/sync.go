package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/quill-editor/quill/internal/core/ports/driving"
)

// statusPollInterval is how often progress is printed during a sync.
var statusPollInterval = 500 * time.Millisecond

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise posts with the connected site",
	Long: `Pull remote posts, push local edits, or both.

Pull overwrites local copies with the server's, discarding unsynced local
edits to those posts. Push uploads pending posts one at a time; a failed
post is reported and skipped. Posts in conflict are skipped until resolved
with 'quill post resolve'.`,
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch every remote post",
	RunE:  runSyncOperation("Pulling", func(s driving.SyncService) syncFunc { return s.Pull }),
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload pending local posts",
	RunE:  runSyncOperation("Pushing", func(s driving.SyncService) syncFunc { return s.Push }),
}

var syncRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Pull, then push",
	RunE:  runSyncOperation("Synchronising", func(s driving.SyncService) syncFunc { return s.Sync }),
}

var syncCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare local posts with the remote without changing content",
	Long: `Fetches the remote listing, records the server's modified times and
prints the sync state of every post. Posts edited on both sides are
marked as conflicts.`,
	RunE: runSyncCheck,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the current or last sync",
	RunE:  runSyncStatus,
}

type syncFunc func(ctx context.Context, siteID string) (*driving.SyncReport, error)

func init() {
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncRunCmd)
	syncCmd.AddCommand(syncCheckCmd)
	syncCmd.AddCommand(syncStatusCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSyncOperation(verb string, pick func(driving.SyncService) syncFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if syncService == nil {
			return errors.New("sync service not configured")
		}
		ctx := commandContext(cmd)

		siteID, err := currentSiteID(ctx)
		if err != nil {
			return err
		}

		cmd.Printf("%s...\n", verb)
		if appLogger != nil {
			appLogger.Section(verb)
		}
		report, err := syncWithProgress(ctx, cmd, pick(syncService), siteID)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		printReport(cmd, report)
		return nil
	}
}

// syncWithProgress runs op while displaying progress updates.
func syncWithProgress(ctx context.Context, cmd *cobra.Command, op syncFunc, siteID string) (*driving.SyncReport, error) {
	type result struct {
		report *driving.SyncReport
		err    error
	}

	done := make(chan result, 1)
	go func() {
		report, err := op(ctx, siteID)
		done <- result{report, err}
	}()

	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case r := <-done:
			if lastCount > 0 {
				cmd.Println()
			}
			return r.report, r.err
		case <-ticker.C:
			// Best effort; a status error only skips this update.
			status, err := syncService.Status(ctx, siteID)
			if err == nil && status != nil && status.Running && status.PostsProcessed > lastCount {
				cmd.Printf("\r%s: %d posts", status.Phase, status.PostsProcessed)
				lastCount = status.PostsProcessed
			}
		}
	}
}

func printReport(cmd *cobra.Command, r *driving.SyncReport) {
	if r == nil {
		return
	}
	cmd.Printf("Created %d, updated %d, uploaded %d, pushed %d.\n", r.Created, r.Updated, r.Uploaded, r.Pushed)
	if r.Discarded > 0 {
		cmd.Printf("Discarded unsynced local edits on %d posts.\n", r.Discarded)
	}
	if r.Failed > 0 {
		cmd.Printf("%d posts failed to push", r.Failed)
		if r.LastError != nil {
			cmd.Printf(": %v", r.LastError)
		}
		cmd.Println()
	}
}

func runSyncCheck(cmd *cobra.Command, _ []string) error {
	if syncService == nil {
		return errors.New("sync service not configured")
	}
	ctx := commandContext(cmd)

	siteID, err := currentSiteID(ctx)
	if err != nil {
		return err
	}

	states, err := syncService.Check(ctx, siteID)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	if len(states) == 0 {
		cmd.Println("No posts.")
		return nil
	}

	rows := make([][]string, 0, len(states))
	for _, s := range states {
		rows = append(rows, []string{shortID(s.Post.ID), truncate(s.Post.Title, 40), s.State.String()})
	}
	cmd.Println(newTable("ID", "TITLE", "STATE").Rows(rows...).String())
	return nil
}

func runSyncStatus(cmd *cobra.Command, _ []string) error {
	if syncService == nil {
		return errors.New("sync service not configured")
	}
	ctx := commandContext(cmd)

	siteID, err := currentSiteID(ctx)
	if err != nil {
		return err
	}

	status, err := syncService.Status(ctx, siteID)
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if status.Running {
		cmd.Printf("Running: %s, %d posts processed\n", status.Phase, status.PostsProcessed)
	} else {
		cmd.Println("Idle")
	}
	if status.ErrorCount > 0 {
		cmd.Printf("Errors: %d (last: %s)\n", status.ErrorCount, status.LastError)
	}
	return nil
}

// newTable returns a borderless table with a header row.
func newTable(headers ...string) *table.Table {
	header := lipgloss.NewStyle().Bold(true).PaddingRight(2)
	cell := lipgloss.NewStyle().PaddingRight(2)
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

// shortID abbreviates a UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
