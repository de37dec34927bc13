package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/cecredit-backend/internal/platform/logger"
)

// CounterStore increments a counter that resets window after its first hit.
// It returns the new count and when the counter resets.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
}

type RateDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) RateDecision
}

type rateLimiter struct {
	log    *logger.Logger
	store  CounterStore
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter allows limit hits per key per window. Store failures let the
// request through.
func NewRateLimiter(log *logger.Logger, store CounterStore, limit int, window time.Duration) RateLimiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	return &rateLimiter{
		log:    log.With("service", "RateLimiter"),
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (rl *rateLimiter) Allow(ctx context.Context, key string) RateDecision {
	key = strings.TrimSpace(key)
	if key == "" {
		key = "unknown"
	}
	n, resetAt, err := rl.store.Incr(ctx, key, rl.window)
	if err != nil {
		rl.log.Warn("Rate limit store failed (allowing request)", "key", key, "error", err)
		return RateDecision{Allowed: true, Limit: rl.limit, Remaining: rl.limit, ResetAt: rl.now().Add(rl.window)}
	}
	remaining := rl.limit - int(n)
	if remaining < 0 {
		remaining = 0
	}
	return RateDecision{
		Allowed:   n <= int64(rl.limit),
		Limit:     rl.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

type memoryEntry struct {
	count   int64
	resetAt time.Time
}

// MemoryCounterStore keeps counters in process memory. Counts are per
// instance and lost on restart.
type MemoryCounterStore struct {
	mu        sync.Mutex
	entries   map[string]*memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{entries: map[string]*memoryEntry{}, now: time.Now}
}

func (s *MemoryCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return 0, time.Time{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= window {
		for k, e := range s.entries {
			if !now.Before(e.resetAt) {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}

	e, ok := s.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &memoryEntry{resetAt: now.Add(window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, e.resetAt, nil
}
