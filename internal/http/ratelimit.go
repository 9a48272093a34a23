package http

import (
	"sync"
	"sync/atomic"
	"time"
)

// Submission throttling. Only POST /expenses passes through the limiter;
// browsing the ledger is never limited. Two people entering groceries do
// not produce more than a handful of writes per minute, so the budget is
// deliberately small.
const (
	writeBudget    = 20 // submissions per client per window
	writeWindow    = time.Minute
	clientStaleAge = 10 * time.Minute
	evictEvery     = 5 * time.Minute
)

// writeLimiter counts expense submissions per client address over a
// fixed window.
type writeLimiter struct {
	mu       sync.Mutex
	windows  map[string]*submitWindow
	done     chan struct{}
	stopOnce sync.Once
}

type submitWindow struct {
	openedAt time.Time
	count    int
}

func newWriteLimiter() *writeLimiter {
	l := &writeLimiter{
		windows: make(map[string]*submitWindow),
		done:    make(chan struct{}),
	}
	go l.evictLoop()
	return l
}

// allow records one submission from addr and reports whether it fits the
// current window. A window that has aged out is reopened fresh.
func (l *writeLimiter) allow(addr string, metrics *securityMetrics) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[addr]
	if !ok || now.Sub(w.openedAt) > writeWindow {
		l.windows[addr] = &submitWindow{openedAt: now, count: 1}
		return true
	}

	w.count++
	if w.count > writeBudget {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}

// evictLoop drops long-idle client windows so the map cannot grow
// without bound.
func (l *writeLimiter) evictLoop() {
	ticker := time.NewTicker(evictEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evictStale()
		case <-l.done:
			return
		}
	}
}

func (l *writeLimiter) evictStale() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-clientStaleAge)
	for addr, w := range l.windows {
		if w.openedAt.Before(cutoff) {
			delete(l.windows, addr)
		}
	}
}

// stop ends the eviction goroutine. Safe to call more than once.
func (l *writeLimiter) stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}
