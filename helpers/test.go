package helpers

import (
	"sync"
	"time"
)

// TestNow returns a fixed time (2026-02-11 12:00:00 UTC) for deterministic tests.
func TestNow() time.Time {
	return time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
}

// TestClock is a manually advanced clock for heartbeat and sweep tests. It starts at TestNow.
// Safe for concurrent use; Now is passed to service.NewTimeProvider.
type TestClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewTestClock creates a TestClock positioned at TestNow.
func NewTestClock() *TestClock {
	return &TestClock{now: TestNow()}
}

// Now returns the current clock position.
func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set positions the clock at TestNow plus offset, so scenarios can be written in absolute seconds.
func (c *TestClock) Set(offset time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = TestNow().Add(offset)
}
