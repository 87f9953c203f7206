// Command quill is a local-first blog editor that syncs posts with a
// WordPress-compatible site.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/quill-editor/quill/internal/adapters/driven/config/file"
	"github.com/quill-editor/quill/internal/adapters/driven/secret"
	"github.com/quill-editor/quill/internal/adapters/driven/storage/sqlite"
	"github.com/quill-editor/quill/internal/adapters/driving/cli"
	"github.com/quill-editor/quill/internal/connectors/wordpress"
	"github.com/quill-editor/quill/internal/core/services"
	"github.com/quill-editor/quill/internal/logger"
	"github.com/quill-editor/quill/internal/normalisers/markdown"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	home, err := file.HomeDir()
	if err != nil {
		return err
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	log := logger.Default()
	log.SetVerbose(settings.Verbose)

	secrets, err := secret.New(settings.SecretBackend, home)
	if err != nil {
		return fmt.Errorf("opening secret store: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(home, "data"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("closing database: %v", cerr)
		}
	}()

	remote := wordpress.NewClient(
		wordpress.WithAPIPath(settings.Remote.APIPath),
		wordpress.WithTimeout(time.Duration(settings.Remote.TimeoutSeconds)*time.Second),
		wordpress.WithRateLimit(float64(settings.Remote.RequestsPerSecond)),
		wordpress.WithMaxResponseBytes(int64(settings.Remote.MaxResponseBytes)),
		wordpress.WithLogger(log),
	)

	posts := store.PostStore()
	sites := store.SiteStore()
	syncer := services.NewSyncOrchestrator(posts, sites, secrets, remote, log, settings.Sync.PerPage)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Posts:    services.NewPostService(posts, sites, secrets, remote, markdown.New(), log),
		Sites:    services.NewSiteService(sites, secrets, posts, remote, log, syncer),
		Sync:     syncer,
		Goals:    services.NewGoalTracker(store.SessionStore(), settings.Goals.DailyWords),
		Media:    services.NewMediaService(sites, secrets, remote),
		Settings: settingsService,
		Logger:   log,
	})

	return cli.Execute(ctx)
}
