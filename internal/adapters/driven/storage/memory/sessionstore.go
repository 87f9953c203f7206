package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

type sessionKey struct {
	day     int64
	context string
}

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[sessionKey]domain.WritingSession
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[sessionKey]domain.WritingSession),
	}
}

func keyFor(day time.Time, sessionContext string) sessionKey {
	return sessionKey{day: domain.StartOfDay(day).Unix(), context: sessionContext}
}

// Save stores a session, replacing any session for the same day and context.
func (s *SessionStore) Save(_ context.Context, session domain.WritingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[keyFor(session.Date, session.Context)] = session
	return nil
}

// Get retrieves the session for a day and context.
func (s *SessionStore) Get(_ context.Context, day time.Time, sessionContext string) (*domain.WritingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[keyFor(day, sessionContext)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &session, nil
}

// ListRange returns sessions with from <= Date < to, oldest first.
func (s *SessionStore) ListRange(_ context.Context, from, to time.Time) ([]domain.WritingSession, error) {
	return s.list(func(ws domain.WritingSession) bool {
		return !ws.Date.Before(from) && ws.Date.Before(to)
	}), nil
}

// ListAll returns every session, oldest first.
func (s *SessionStore) ListAll(_ context.Context) ([]domain.WritingSession, error) {
	return s.list(func(domain.WritingSession) bool { return true }), nil
}

func (s *SessionStore) list(keep func(domain.WritingSession) bool) []domain.WritingSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.WritingSession
	for _, ws := range s.sessions {
		if keep(ws) {
			result = append(result, ws)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Context < result[j].Context
	})
	return result
}
