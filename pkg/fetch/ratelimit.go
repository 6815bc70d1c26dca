package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sriram-PR/linkedin-scraper/pkg/metrics"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimiter paces request attempts per host with a token bucket
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	log      *logrus.Entry
}

// NewRateLimiter creates a RateLimiter. rps <= 0 disables pacing.
func NewRateLimiter(rps float64, log *logrus.Entry) *RateLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    1,
		log:      log,
	}
}

// Wait blocks until host may be contacted again, or ctx ends
func (rl *RateLimiter) Wait(ctx context.Context, host string) error {
	if rl == nil || rl.limit == rate.Inf {
		return nil
	}

	rl.mu.Lock()
	limiter, ok := rl.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[host] = limiter
	}
	rl.mu.Unlock()

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	if waited := time.Since(start); waited > time.Millisecond {
		rl.log.WithFields(logrus.Fields{"host": host, "waited": waited}).Debug("Rate limit applied delay")
		metrics.ObserveRateLimitDelay(waited)
	}
	return nil
}
