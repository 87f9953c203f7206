package wordpress

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRequestsPerSecond is the proactive throttle rate.
	DefaultRequestsPerSecond = 5.0

	// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
	HeaderRetryAfter = "Retry-After"

	// MaxRetryAfter caps how long a server can ask us to pause.
	MaxRetryAfter = 2 * time.Minute
)

// RateLimiter combines a token bucket with server-requested pauses.
type RateLimiter struct {
	mu          sync.Mutex
	bucket      *rate.Limiter // Proactive throttling
	pausedUntil time.Time     // From Retry-After or backoff
}

// NewRateLimiter creates a rate limiter. A non-positive rate disables
// proactive throttling.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	pausedUntil := r.pausedUntil
	r.mu.Unlock()

	if wait := time.Until(pausedUntil); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return nil
}

// Pause delays every request until d has elapsed. A shorter pause never
// cuts an existing one short.
func (r *RateLimiter) Pause(d time.Duration) {
	if d <= 0 {
		return
	}
	if d > MaxRetryAfter {
		d = MaxRetryAfter
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if until := time.Now().Add(d); until.After(r.pausedUntil) {
		r.pausedUntil = until
	}
}

// PausedUntil returns the end of the current pause.
func (r *RateLimiter) PausedUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pausedUntil
}

// RetryAfter parses the Retry-After header.
func RetryAfter(h http.Header, now time.Time) (time.Duration, bool) {
	value := strings.TrimSpace(h.Get(HeaderRetryAfter))
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			seconds = 0
		}
		return time.Duration(seconds) * time.Second, true
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}
