package services

import "sync"

// siteGuard ensures only one sync operation runs per site at a time.
// The zero value is ready to use.
type siteGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
}

// TryLock marks siteID as busy. Returns false if it already is.
func (g *siteGuard) TryLock(siteID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[siteID]; ok {
		return false
	}
	g.running[siteID] = struct{}{}
	return true
}

// Unlock releases siteID. Must be called after TryLock returns true.
func (g *siteGuard) Unlock(siteID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, siteID)
}

// SiteLocker runs work on a site while no sync for it is running.
type SiteLocker interface {
	Hold(siteID string, fn func() error) error
}
