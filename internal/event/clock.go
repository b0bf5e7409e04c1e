// Package event provides the single-threaded event loop the whole input
// pipeline runs on. Touch samples, timer expirations, and dispatch share
// one queue so event order always matches physical input order; a timer
// firing is itself an event re-injected into the queue, never a callback
// from another goroutine.
package event

import "time"

// Clock is a monotonic time source. Times are offsets from an arbitrary
// fixed origin, so they are comparable but not wall-clock meaningful.
type Clock interface {
	Now() time.Duration
}

// realClock measures offsets from process start using the runtime's
// monotonic reading.
type realClock struct {
	origin time.Time
}

// NewClock returns the monotonic clock used in production.
func NewClock() Clock {
	return &realClock{origin: time.Now()}
}

func (c *realClock) Now() time.Duration {
	return time.Since(c.origin)
}

// ManualClock is a clock advanced explicitly, for deterministic tests.
type ManualClock struct {
	now time.Duration
}

// NewManualClock creates a manual clock at time zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Duration {
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.now += d
}

// Set moves the clock to an absolute offset.
func (c *ManualClock) Set(d time.Duration) {
	c.now = d
}
