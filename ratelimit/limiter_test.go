package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testClock(start time.Time) (*time.Time, func() time.Time) {
	current := start
	return &current, func() time.Time { return current }
}

func TestMemoryStore_BudgetExhaustion(t *testing.T) {
	_, now := testClock(time.Now())
	store := NewMemoryStoreWithClock(now)
	cfg := Config{MaxRequests: 5, Window: time.Minute}

	for i := 0; i < 5; i++ {
		assert.True(t, store.Allow("1.2.3.4", cfg), "request %d should be allowed", i+1)
	}
	assert.False(t, store.Allow("1.2.3.4", cfg), "6th request in the same window should be rejected")
	assert.False(t, store.Allow("1.2.3.4", cfg), "further requests stay rejected")
}

func TestMemoryStore_WindowReset(t *testing.T) {
	clock, now := testClock(time.Now())
	store := NewMemoryStoreWithClock(now)
	cfg := Config{MaxRequests: 2, Window: time.Minute}

	assert.True(t, store.Allow("key", cfg))
	assert.True(t, store.Allow("key", cfg))
	assert.False(t, store.Allow("key", cfg))

	// Rejected attempts do not extend the window
	*clock = clock.Add(time.Minute)
	assert.True(t, store.Allow("key", cfg), "window elapsed, counter resets")
	assert.True(t, store.Allow("key", cfg))
	assert.False(t, store.Allow("key", cfg))
}

func TestMemoryStore_IdentifierIndependence(t *testing.T) {
	_, now := testClock(time.Now())
	store := NewMemoryStoreWithClock(now)
	cfg := Config{MaxRequests: 1, Window: time.Hour}

	assert.True(t, store.Allow("a", cfg))
	assert.False(t, store.Allow("a", cfg))

	assert.True(t, store.Allow("b", cfg), "identifier b has its own budget")
	assert.False(t, store.Allow("b", cfg))
}

func TestMemoryStore_DisabledConfigAllowsEverything(t *testing.T) {
	store := NewMemoryStore()

	for i := 0; i < 100; i++ {
		assert.True(t, store.Allow("key", Config{}))
		assert.True(t, store.Allow("key", Config{MaxRequests: 5}))
		assert.True(t, store.Allow("key", Config{Window: time.Minute}))
	}
	assert.Equal(t, 0, store.Len(), "disabled configs must not accumulate state")
}

func TestMemoryStore_FirstRequestOfFreshWindowAlwaysAllowed(t *testing.T) {
	clock, now := testClock(time.Now())
	store := NewMemoryStoreWithClock(now)
	cfg := Config{MaxRequests: 3, Window: 10 * time.Minute}

	for i := 0; i < 3; i++ {
		store.Allow("key", cfg)
	}
	assert.False(t, store.Allow("key", cfg))

	// Exactly at the boundary the old window has ended
	*clock = clock.Add(10 * time.Minute)
	assert.True(t, store.Allow("key", cfg))
}

func TestMemoryStore_ConcreteScenario(t *testing.T) {
	_, now := testClock(time.Now())
	store := NewMemoryStoreWithClock(now)
	cfg := Config{MaxRequests: 5, Window: 60 * time.Second}

	for i := 0; i < 5; i++ {
		assert.True(t, store.Allow("1.2.3.4", cfg))
	}
	assert.False(t, store.Allow("1.2.3.4", cfg))
}

func TestMemoryStore_Prune(t *testing.T) {
	clock, now := testClock(time.Now())
	store := NewMemoryStoreWithClock(now)
	cfg := Config{MaxRequests: 5, Window: time.Minute}

	for i := 0; i < 10; i++ {
		store.Allow(fmt.Sprintf("ip-%d", i), cfg)
	}
	assert.Equal(t, 10, store.Len())

	*clock = clock.Add(2 * time.Hour)
	removed := store.Prune(time.Hour)
	assert.Equal(t, 10, removed)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_ConcurrentSameIdentifier(t *testing.T) {
	store := NewMemoryStore()
	cfg := Config{MaxRequests: 50, Window: time.Hour}

	results := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		go func() {
			results <- store.Allow("shared", cfg)
		}()
	}

	allowed := 0
	for i := 0; i < 100; i++ {
		if <-results {
			allowed++
		}
	}
	assert.Equal(t, 50, allowed, "concurrent requests must never exceed the budget")
}
