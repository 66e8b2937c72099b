// Package ratelimit provides an injectable fixed-window rate limiter keyed
// by caller identity. Both implementations carry explicit capacity/window
// configuration so they can be unit-tested and swapped.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Limiter interface {
	// Allow reports whether the caller identified by key may proceed
	// within the current window.
	Allow(ctx context.Context, key string) (bool, error)
}

type Config struct {
	Capacity int
	Window   time.Duration
}

// MemoryLimiter keeps window counters in process memory. Expired windows
// are evicted on access and whenever the map grows past evictThreshold.
type MemoryLimiter struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count     int
	startedAt time.Time
}

const evictThreshold = 1024

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:     cfg,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	w, ok := l.windows[key]
	if ok && now.Sub(w.startedAt) >= l.cfg.Window {
		delete(l.windows, key)
		ok = false
	}

	if !ok {
		if len(l.windows) >= evictThreshold {
			l.evictExpired(now)
		}

		l.windows[key] = &window{count: 1, startedAt: now}
		return l.cfg.Capacity >= 1, nil
	}

	if w.count >= l.cfg.Capacity {
		return false, nil
	}

	w.count++
	return true, nil
}

func (l *MemoryLimiter) evictExpired(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.startedAt) >= l.cfg.Window {
			delete(l.windows, key)
		}
	}
}
