package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
)

// currentSite returns the connected site. Only one site is connected at
// a time; if the store somehow holds several, the oldest wins.
func currentSite(ctx context.Context, sites driven.SiteStore) (*domain.SiteConfiguration, error) {
	all, err := sites.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	if len(all) == 0 {
		return nil, domain.ErrNoSite
	}
	return all[0], nil
}

// siteCredentials loads a site and its secret.
func siteCredentials(
	ctx context.Context, sites driven.SiteStore, secrets driven.SecretStore, siteID string,
) (*domain.SiteConfiguration, domain.SiteCredentials, error) {
	site, err := sites.Get(ctx, siteID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.SiteCredentials{}, fmt.Errorf("%w: %s", domain.ErrNoSite, siteID)
	}
	if err != nil {
		return nil, domain.SiteCredentials{}, fmt.Errorf("get site: %w", err)
	}

	secret, err := secrets.Retrieve(ctx, site.SecretKey())
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.SiteCredentials{}, fmt.Errorf("%w: %s", domain.ErrNoCredential, site.SiteURL)
	}
	if err != nil {
		return nil, domain.SiteCredentials{}, fmt.Errorf("retrieve secret: %w", err)
	}

	return site, site.Credentials(secret), nil
}

// nopLog discards messages when no sink is configured.
type nopLog struct{}

func (nopLog) Log(domain.LogLevel, string, string) {}

func sinkOrNop(sink driven.LogSink) driven.LogSink {
	if sink == nil {
		return nopLog{}
	}
	return sink
}
