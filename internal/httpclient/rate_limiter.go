package httpclient

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// SiteRateLimiter keeps one token bucket per connection target so a scan never
// hammers a single host while other hosts stay unthrottled.
type SiteRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewSiteRateLimiter creates a limiter. rps <= 0 disables limiting.
func NewSiteRateLimiter(rps float64, burst int) *SiteRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &SiteRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

// Wait blocks until a request to site is allowed or ctx is done.
func (l *SiteRateLimiter) Wait(ctx context.Context, site string) error {
	if l == nil || l.rps <= 0 {
		return nil
	}
	return l.limiterFor(site).Wait(ctx)
}

// Sites returns the number of sites with a bucket.
func (l *SiteRateLimiter) Sites() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *SiteRateLimiter) limiterFor(site string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[site]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), l.burst)
		l.limiters[site] = limiter
	}
	return limiter
}
