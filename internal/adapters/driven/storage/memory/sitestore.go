package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
)

// Ensure SiteStore implements the interface.
var _ driven.SiteStore = (*SiteStore)(nil)

// SiteStore is an in-memory implementation of driven.SiteStore.
type SiteStore struct {
	mu    sync.RWMutex
	sites map[string]domain.SiteConfiguration
}

// NewSiteStore creates a new in-memory site store.
func NewSiteStore() *SiteStore {
	return &SiteStore{
		sites: make(map[string]domain.SiteConfiguration),
	}
}

// Save stores or updates a site configuration.
func (s *SiteStore) Save(_ context.Context, site *domain.SiteConfiguration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sites[site.ID] = *site
	return nil
}

// Get retrieves a site configuration by ID.
func (s *SiteStore) Get(_ context.Context, id string) (*domain.SiteConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	site, ok := s.sites[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &site, nil
}

// List returns all site configurations, oldest first.
func (s *SiteStore) List(_ context.Context) ([]*domain.SiteConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.SiteConfiguration, 0, len(s.sites))
	for id := range s.sites {
		site := s.sites[id]
		result = append(result, &site)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes a site configuration.
func (s *SiteStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sites, id)
	return nil
}
