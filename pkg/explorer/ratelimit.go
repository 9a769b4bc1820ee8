package explorer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// RateLimiter enforces a rolling per-minute request budget. When the budget
// is exhausted, Wait blocks until the window resets instead of failing.
// Mutex-guarded: the limiter is shared across concurrently handled requests.
type RateLimiter struct {
	mu          sync.Mutex
	budget      int
	remaining   int
	windowStart time.Time
}

// NewRateLimiter returns a limiter allowing perMinute requests per rolling
// minute. perMinute <= 0 disables limiting.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{budget: perMinute, remaining: perMinute, windowStart: time.Now()}
}

// Wait consumes one unit of the budget, blocking until the window resets if
// none remain. Returns early only when ctx is cancelled.
func (l *RateLimiter) Wait(ctx context.Context) error {
	if l.budget <= 0 {
		return ctx.Err()
	}
	for {
		l.mu.Lock()
		now := time.Now()
		if now.Sub(l.windowStart) > time.Minute {
			l.windowStart = now
			l.remaining = l.budget
		}
		if l.remaining > 0 {
			l.remaining--
			l.mu.Unlock()
			return nil
		}
		wait := time.Minute - now.Sub(l.windowStart)
		l.mu.Unlock()

		if wait <= 0 {
			continue
		}
		log.Warn().Dur("wait", wait).Msg("rate limit reached, waiting for window reset")
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
