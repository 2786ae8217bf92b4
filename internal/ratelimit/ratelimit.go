// Package ratelimit paces outbound calls to the primary provider.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate enforces a minimum wall-clock interval between acquisitions,
// process-wide. It never rejects, only delays: N sequential Acquire
// calls take at least (N-1) times the interval. The limiter's internal
// lock makes the check-and-reserve step atomic under concurrent callers.
type Gate struct {
	limiter *rate.Limiter
}

// New creates a Gate with the given minimum interval. A non-positive
// interval disables pacing.
func New(minInterval time.Duration) *Gate {
	if minInterval <= 0 {
		return &Gate{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Gate{limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Acquire blocks until the interval since the previous acquisition has
// elapsed, or until ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}
