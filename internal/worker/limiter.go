package worker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles repeated work per key, such as rebuilds of one output
// target triggered by a burst of file events.
type Limiter struct {
	mu       sync.Mutex
	byKey    map[string]*rate.Limiter
	interval rate.Limit
	burst    int
}

// NewLimiter allows burst runs per key, refilled at one run per interval.
// A non-positive interval disables throttling.
func NewLimiter(interval time.Duration, burst int) *Limiter {
	return &Limiter{
		byKey:    make(map[string]*rate.Limiter),
		interval: every(interval),
		burst:    max(burst, 1),
	}
}

// Wait blocks until key may run again or ctx is done.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.forKey(key).Wait(ctx)
}

// Allow reports whether key may run now, consuming a token if so.
func (l *Limiter) Allow(key string) bool {
	return l.forKey(key).Allow()
}

// SetInterval overrides the throttle for one key. A non-positive burst
// keeps the default.
func (l *Limiter) SetInterval(key string, interval time.Duration, burst int) {
	if burst <= 0 {
		burst = l.burst
	}
	l.mu.Lock()
	l.byKey[key] = rate.NewLimiter(every(interval), burst)
	l.mu.Unlock()
}

func (l *Limiter) forKey(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.byKey[key]
	if !ok {
		lim = rate.NewLimiter(l.interval, l.burst)
		l.byKey[key] = lim
	}
	return lim
}

func every(interval time.Duration) rate.Limit {
	if interval <= 0 {
		return rate.Inf
	}
	return rate.Every(interval)
}
