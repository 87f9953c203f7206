// Package cli implements the quill command line interface with cobra.
// Services are injected by the composition root through SetServices
// before Execute is called.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quill-editor/quill/internal/core/ports/driving"
	"github.com/quill-editor/quill/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

var (
	postService     driving.PostService
	siteService     driving.SiteService
	syncService     driving.SyncService
	goalService     driving.GoalService
	mediaService    driving.MediaService
	settingsService driving.SettingsService
	appLogger       *logger.Logger
)

// verbose is the --verbose flag.
var verbose bool

// Services holds the driving ports the commands use.
type Services struct {
	Posts    driving.PostService
	Sites    driving.SiteService
	Sync     driving.SyncService
	Goals    driving.GoalService
	Media    driving.MediaService
	Settings driving.SettingsService
	Logger   *logger.Logger
}

// SetServices injects the services. Nil fields leave the matching
// commands unconfigured.
func SetServices(s Services) {
	postService = s.Posts
	siteService = s.Sites
	syncService = s.Sync
	goalService = s.Goals
	mediaService = s.Media
	settingsService = s.Settings
	appLogger = s.Logger
}

// SetVersion sets the version printed by `quill version`.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Write blog posts offline and sync them with your site",
	Long: `Quill is a local-first blog editor.

Posts are written and stored locally, then pulled from and pushed to a
WordPress-compatible site over its REST API. Connect a site with
'quill site connect', write with 'quill edit', and sync with 'quill sync run'.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose && appLogger != nil {
			appLogger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug and info logs")
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command's context, or Background when the
// command runs outside ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// currentSiteID returns the id of the connected site.
func currentSiteID(ctx context.Context) (string, error) {
	if siteService == nil {
		return "", errors.New("site service not configured")
	}
	site, err := siteService.Current(ctx)
	if err != nil {
		return "", fmt.Errorf("no site: %w (run 'quill site connect' first)", err)
	}
	return site.ID, nil
}
