package ratelimit

import (
	"sync"
	"time"
)

// Config bounds requests per identifier within a fixed window. A zero value
// disables throttling entirely.
type Config struct {
	MaxRequests int
	Window      time.Duration
}

func (c Config) enabled() bool {
	return c.MaxRequests > 0 && c.Window > 0
}

// Store decides whether a request from the given identifier fits within the
// configured budget. Implementations never fail a request on internal errors;
// throttling is best-effort abuse protection, not precision rate control.
type Store interface {
	Allow(identifier string, cfg Config) bool
}

type memoryEntry struct {
	windowStart time.Time
	count       int
}

// MemoryStore is a fixed-window request counter held in process memory.
// A burst of up to 2x MaxRequests can straddle a window boundary; that is an
// accepted property of the fixed-window algorithm.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store using the system clock.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock creates a store with an injected time source so
// tests can cross window boundaries deterministically.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

// Allow records a request for identifier and reports whether it fits within
// the budget. The first request of a fresh window always succeeds.
func (s *MemoryStore) Allow(identifier string, cfg Config) bool {
	if !cfg.enabled() {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	entry, ok := s.entries[identifier]
	if !ok || now.Sub(entry.windowStart) >= cfg.Window {
		s.entries[identifier] = memoryEntry{windowStart: now, count: 1}
		return true
	}

	if entry.count >= cfg.MaxRequests {
		return false
	}

	entry.count++
	s.entries[identifier] = entry
	return true
}

// Prune drops entries whose window ended before the given cutoff. Callers may
// run it opportunistically; correctness never depends on it.
func (s *MemoryStore) Prune(olderThan time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.entries {
		if now.Sub(entry.windowStart) >= olderThan {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked identifiers.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
