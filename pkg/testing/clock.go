package testing

import (
	"sync/atomic"
	"time"
)

// Epoch is the time a new FakeClock reads.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// FakeClock is an animation.Clock that only moves when told to, so autoplay
// intervals and transition curves can be stepped exactly. It is safe for
// concurrent use; loader goroutines may read it while a test advances it.
type FakeClock struct {
	elapsed atomic.Int64
}

// NewFakeClock returns a clock reading Epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{}
}

// Now returns Epoch plus the time advanced so far.
func (c *FakeClock) Now() time.Time {
	return Epoch.Add(c.Elapsed())
}

// Elapsed returns the total time advanced since Epoch.
func (c *FakeClock) Elapsed() time.Duration {
	return time.Duration(c.elapsed.Load())
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.elapsed.Add(int64(d))
}

// Set moves the clock to t, which may be before the current time.
func (c *FakeClock) Set(t time.Time) {
	c.elapsed.Store(int64(t.Sub(Epoch)))
}
