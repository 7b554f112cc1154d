package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/ports"
)

type window struct {
	count   int
	resetAt time.Time
}

// InMemoryLimiter is a fixed-window counter behind a mutex. It resets on
// process restart and is not shared across instances, so it only bounds a
// single-instance deployment; multi-instance setups use RedisLimiter.
type InMemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]window
	limit   int
	size    time.Duration
	now     func() time.Time
}

func NewInMemoryLimiter(limit int, size time.Duration) *InMemoryLimiter {
	return &InMemoryLimiter{
		windows: make(map[string]window),
		limit:   limit,
		size:    size,
		now:     time.Now,
	}
}

var _ ports.RateLimiter = (*InMemoryLimiter)(nil)

func (l *InMemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictExpired(now)

	w, ok := l.windows[key]
	if !ok {
		w = window{resetAt: now.Add(l.size)}
	}

	w.count++
	l.windows[key] = w

	return w.count <= l.limit, nil
}

// evictExpired drops every closed window, not just the caller's, so keys
// seen once never accumulate for the process lifetime
func (l *InMemoryLimiter) evictExpired(now time.Time) {
	for key, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, key)
		}
	}
}
