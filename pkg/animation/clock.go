package animation

import "time"

// Clock provides time for animations and timers. The default implementation
// uses system time. Tests inject a fake clock through [NewScheduler] to
// control timing deterministically.
type Clock interface {
	Now() time.Time
}

// realClock uses system time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return realClock{} }
