package driven

import (
	"context"
	"time"

	"github.com/quill-editor/quill/internal/core/domain"
)

// SessionStore persists writing sessions, one per day per context.
type SessionStore interface {
	// Save stores a session, replacing any session for the same day and context.
	Save(ctx context.Context, session domain.WritingSession) error

	// Get retrieves the session for a day and context.
	// Returns domain.ErrNotFound if nothing was recorded.
	Get(ctx context.Context, day time.Time, sessionContext string) (*domain.WritingSession, error)

	// ListRange returns sessions with from <= Date < to, oldest first.
	ListRange(ctx context.Context, from, to time.Time) ([]domain.WritingSession, error)

	// ListAll returns every session, oldest first.
	ListAll(ctx context.Context) ([]domain.WritingSession, error)
}
