// Package clock provides the monotonic time base used by every scheduler in
// go-enic. Deadlines are stored as durations since the clock started, the same
// way the firmware compares against a millisecond counter.
package clock

import (
	"sync"
	"time"
)

// Clock reports monotonic time elapsed since it was created.
type Clock interface {
	Now() time.Duration
}

// System is a Clock backed by the runtime's monotonic clock.
type System struct {
	start time.Time
}

// New returns a System clock starting at zero.
func New() *System {
	return &System{start: time.Now()}
}

// Now returns the time elapsed since the clock was created.
func (s *System) Now() time.Duration {
	return time.Since(s.start)
}

// Manual is a Clock that only moves when told to. Safe for concurrent use.
type Manual struct {
	mu  sync.Mutex
	now time.Duration
}

// NewManual returns a Manual clock set to start.
func NewManual(start time.Duration) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d and returns the new time.
func (m *Manual) Advance(d time.Duration) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += d
	return m.now
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Duration) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Reached reports whether now is at or past deadline.
func Reached(now, deadline time.Duration) bool {
	return now >= deadline
}
