package github

import (
	"context"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/time/rate"
)

const (
	// searchRateLimit is GitHub's authenticated search quota (30/minute).
	searchRateLimit = 30

	// proactiveRate throttles well under the search quota (~0.4 req/sec).
	proactiveRate = 0.4

	// minBuffer is the remaining-request floor before waiting for reset.
	minBuffer = 3
)

// RateLimiter combines proactive throttling with reactive quota tracking
// from GitHub's rate limit response fields.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int
	resetTime time.Time
	bucket    *rate.Limiter
}

// NewRateLimiter creates a rate limiter tuned for the search API.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		remaining: searchRateLimit,
		bucket:    rate.NewLimiter(rate.Limit(proactiveRate), 1),
	}
}

// Wait blocks until it is safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	remaining := r.remaining
	resetTime := r.resetTime
	r.mu.Unlock()

	if remaining < minBuffer && time.Now().Before(resetTime) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(resetTime)):
		}
	}
	return nil
}

// Update records quota state from a go-github response.
func (r *RateLimiter) Update(resp *gh.Response) {
	if resp == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = resp.Rate.Remaining
	r.resetTime = resp.Rate.Reset.Time
}
