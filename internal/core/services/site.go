package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
	"github.com/quill-editor/quill/internal/core/ports/driving"
)

// Ensure SiteService implements the interface.
var _ driving.SiteService = (*SiteService)(nil)

// SiteService manages the connection to the remote site.
type SiteService struct {
	sites   driven.SiteStore
	secrets driven.SecretStore
	posts   driven.PostStore
	remote  driven.RemoteClient
	log     driven.LogSink
	syncs   SiteLocker
	now     func() time.Time
}

// NewSiteService creates a new site service.
func NewSiteService(
	sites driven.SiteStore,
	secrets driven.SecretStore,
	posts driven.PostStore,
	remote driven.RemoteClient,
	log driven.LogSink,
	syncs SiteLocker,
) *SiteService {
	return &SiteService{
		sites:   sites,
		secrets: secrets,
		posts:   posts,
		remote:  remote,
		log:     sinkOrNop(log),
		syncs:   syncs,
		now:     time.Now,
	}
}

// Connect tests the credentials, stores the configuration and the secret,
// and replaces any previously connected site.
//
// Reconnecting to the same URL with the same username only refreshes the
// secret. Connecting to a different site disconnects the old one first,
// which deletes its posts. Posts written before any site was connected
// are queued for upload.
func (s *SiteService) Connect(ctx context.Context, req driving.ConnectRequest) (*domain.SiteConfiguration, error) {
	siteURL, err := domain.NormalizeSiteURL(req.SiteURL)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if req.Secret == "" {
		return nil, fmt.Errorf("%w: password or application token is required", domain.ErrInvalidInput)
	}

	creds := domain.SiteCredentials{
		SiteURL:        siteURL,
		Username:       username,
		Secret:         req.Secret,
		IsWordPressCom: req.IsWordPressCom,
	}
	if err := s.remote.TestConnection(ctx, creds); err != nil {
		return nil, fmt.Errorf("test connection: %w", err)
	}

	existing, err := currentSite(ctx, s.sites)
	switch {
	case errors.Is(err, domain.ErrNoSite):
		existing = nil
	case err != nil:
		return nil, err
	}

	if existing != nil && existing.SiteURL == siteURL && existing.Username == username {
		existing.IsWordPressCom = req.IsWordPressCom
		if err := s.secrets.Save(ctx, existing.SecretKey(), req.Secret); err != nil {
			return nil, fmt.Errorf("save secret: %w", err)
		}
		if err := s.sites.Save(ctx, existing); err != nil {
			return nil, fmt.Errorf("save site: %w", err)
		}
		s.log.Log(domain.LogInfo, "site", "updated credentials for "+siteURL)
		return existing, nil
	}

	if existing != nil {
		if _, err := s.Disconnect(ctx); err != nil {
			return nil, fmt.Errorf("disconnect %s: %w", existing.SiteURL, err)
		}
	}

	site := &domain.SiteConfiguration{
		ID:             uuid.NewString(),
		SiteURL:        siteURL,
		Username:       username,
		IsWordPressCom: req.IsWordPressCom,
		CreatedAt:      s.now(),
	}

	// The secret goes first so a stored site always has one.
	if err := s.secrets.Save(ctx, site.SecretKey(), req.Secret); err != nil {
		return nil, fmt.Errorf("save secret: %w", err)
	}
	if err := s.sites.Save(ctx, site); err != nil {
		_ = s.secrets.Delete(ctx, site.SecretKey())
		return nil, fmt.Errorf("save site: %w", err)
	}

	if err := s.adoptLocalPosts(ctx, site.ID); err != nil {
		return nil, err
	}

	s.log.Log(domain.LogInfo, "site", "connected to "+siteURL)
	return site, nil
}

// adoptLocalPosts queues posts written while no site was connected.
func (s *SiteService) adoptLocalPosts(ctx context.Context, siteID string) error {
	local, err := s.posts.List(ctx, domain.PostFilter{OnlyUnsynced: true})
	if err != nil {
		return fmt.Errorf("list local posts: %w", err)
	}
	if len(local) == 0 {
		return nil
	}

	for _, post := range local {
		post.SiteID = siteID
		post.Queue()
	}
	if err := s.posts.SaveBatch(ctx, local); err != nil {
		return fmt.Errorf("queue local posts: %w", err)
	}
	s.log.Log(domain.LogInfo, "site", fmt.Sprintf("queued %d local posts for upload", len(local)))
	return nil
}

// Current returns the connected site or domain.ErrNoSite.
func (s *SiteService) Current(ctx context.Context) (*domain.SiteConfiguration, error) {
	return currentSite(ctx, s.sites)
}

// Disconnect removes the site, its secret and every local post,
// including posts with unsynced edits. The report says how many of
// those were lost. It fails with domain.ErrSyncInProgress while a sync
// for the site is running.
func (s *SiteService) Disconnect(ctx context.Context) (*driving.DisconnectReport, error) {
	site, err := currentSite(ctx, s.sites)
	if err != nil {
		return nil, err
	}
	if s.syncs == nil {
		return s.disconnect(ctx, site)
	}

	var report *driving.DisconnectReport
	err = s.syncs.Hold(site.ID, func() error {
		var err error
		report, err = s.disconnect(ctx, site)
		return err
	})
	return report, err
}

func (s *SiteService) disconnect(ctx context.Context, site *domain.SiteConfiguration) (*driving.DisconnectReport, error) {
	posts, err := s.posts.List(ctx, domain.PostFilter{})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	report := &driving.DisconnectReport{SiteURL: site.SiteURL}
	for _, post := range posts {
		if post.HasUnsavedChanges() {
			report.UnsyncedDiscarded++
		}
	}

	report.PostsDeleted, err = s.posts.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("delete posts: %w", err)
	}
	if err := s.secrets.Delete(ctx, site.SecretKey()); err != nil {
		return nil, fmt.Errorf("delete secret: %w", err)
	}
	if err := s.sites.Delete(ctx, site.ID); err != nil {
		return nil, fmt.Errorf("delete site: %w", err)
	}

	if report.UnsyncedDiscarded > 0 {
		s.log.Log(domain.LogWarning, "site", fmt.Sprintf(
			"disconnect from %s discarded %d posts with unsynced edits", site.SiteURL, report.UnsyncedDiscarded))
	}
	return report, nil
}
