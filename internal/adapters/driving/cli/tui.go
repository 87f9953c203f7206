package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/quill-editor/quill/internal/adapters/driving/tui"
)

// editCmd launches the terminal editor.
var editCmd = &cobra.Command{
	Use:     "edit [post-id]",
	Aliases: []string{"tui"},
	Short:   "Open the interactive editor",
	Long: `Open the interactive terminal editor.

Without an argument the editor starts on the main menu. With a post ID
(or a unique prefix of one) it opens that post directly.

Controls:
  ↑/k, ↓/j  Navigate posts and blocks
  Enter     Open / new block
  /         Block menu
  Ctrl+S    Save
  Esc       Back
  Ctrl+C    Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

// runTUI starts the program; replaced in tests.
var runTUI = func(app *tui.App) error {
	return app.Run()
}

func runEdit(cmd *cobra.Command, args []string) (err error) {
	if postService == nil {
		return errors.New("post service not configured")
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in editor: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("editor crashed: %v", r)
		}
	}()

	ctx := commandContext(cmd)
	app, err := tui.NewApp(ctx, &tui.Ports{
		Posts: postService,
		Sync:  syncService,
		Sites: siteService,
		Goals: goalService,
	})
	if err != nil {
		return fmt.Errorf("failed to create editor: %w", err)
	}

	if len(args) == 1 {
		post, err := findPost(ctx, args[0])
		if err != nil {
			return err
		}
		app.OpenPost(post)
	}

	if err := runTUI(app); err != nil {
		return fmt.Errorf("editor error: %w", err)
	}
	return nil
}
