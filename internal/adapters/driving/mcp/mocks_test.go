package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quill-editor/quill/internal/adapters/driven/storage/memory"
	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driving"
	"github.com/quill-editor/quill/internal/core/services"
	"github.com/quill-editor/quill/internal/normalisers/markdown"
)

// mockSyncService is a mock implementation of driving.SyncService.
type mockSyncService struct {
	driving.SyncService
	calls  []string
	report *driving.SyncReport
	err    error
}

func (m *mockSyncService) record(op, siteID string) (*driving.SyncReport, error) {
	m.calls = append(m.calls, op+":"+siteID)
	return m.report, m.err
}

func (m *mockSyncService) Pull(_ context.Context, siteID string) (*driving.SyncReport, error) {
	return m.record("pull", siteID)
}

func (m *mockSyncService) Push(_ context.Context, siteID string) (*driving.SyncReport, error) {
	return m.record("push", siteID)
}

func (m *mockSyncService) Sync(_ context.Context, siteID string) (*driving.SyncReport, error) {
	return m.record("run", siteID)
}

// mockSiteService is a mock implementation of driving.SiteService.
type mockSiteService struct {
	driving.SiteService
	site *domain.SiteConfiguration
	err  error
}

func (m *mockSiteService) Current(_ context.Context) (*domain.SiteConfiguration, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.site == nil {
		return nil, domain.ErrNoSite
	}
	return m.site, nil
}

// newPostService returns a post service over memory stores with no site connected.
func newPostService(t *testing.T) *services.PostService {
	t.Helper()
	return services.NewPostService(
		memory.NewPostStore(), memory.NewSiteStore(), memory.NewSecretStore(),
		nil, markdown.New(), nil,
	)
}

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Posts == nil {
		ports.Posts = newPostService(t)
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}
