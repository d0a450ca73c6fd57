package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket shared by every call to one upstream host.
// It starts full and refills one token per interval.
type RateLimiter struct {
	mu       sync.Mutex
	tokens   int
	burst    int
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// NewRateLimiter allows burst calls at once and one more per interval.
func NewRateLimiter(burst int, interval time.Duration) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		tokens:   burst,
		burst:    burst,
		interval: interval,
		last:     time.Now(),
		now:      time.Now,
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		delay, ok := r.reserve()
		if ok {
			return nil
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Allow takes a token if one is available without blocking.
func (r *RateLimiter) Allow() bool {
	_, ok := r.reserve()
	return ok
}

// reserve takes a token, or reports how long until the next one accrues.
func (r *RateLimiter) reserve() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if r.interval > 0 {
		if n := int(now.Sub(r.last) / r.interval); n > 0 {
			r.tokens = min(r.burst, r.tokens+n)
			r.last = r.last.Add(time.Duration(n) * r.interval)
		}
	} else {
		r.tokens = r.burst
	}
	if r.tokens > 0 {
		r.tokens--
		return 0, true
	}
	return r.interval - now.Sub(r.last), false
}
