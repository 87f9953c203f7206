package driving

import (
	"context"
	"time"

	"github.com/quill-editor/quill/internal/core/domain"
)

// GoalService tracks words written per day.
type GoalService interface {
	// Record sets the words written on the day of at for a context.
	// A second call on the same day replaces the first.
	Record(ctx context.Context, at time.Time, sessionContext string, words int) error

	// Progress summarises today, this week and streaks as of now.
	Progress(ctx context.Context, now time.Time) (*domain.GoalProgress, error)

	// History returns one total per day for the last n days, oldest first.
	History(ctx context.Context, now time.Time, days int) ([]domain.DailyTotal, error)
}
