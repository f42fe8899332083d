// Package animation provides the timing primitives that drive a carousel:
// frame tickers, the autoplay [Periodic] timer, and the
// [AnimationController] used for slide and cross-fade transitions.
//
// # Core Components
//
//   - [Scheduler]: owns a clock and the set of active tickers. The host loop
//     calls [Scheduler.Step] once per frame on the UI goroutine.
//
//   - [Ticker]: calls a callback on each frame with the elapsed time since
//     it was started.
//
//   - [Periodic]: a cancellable repeating timer built on a Ticker.
//
//   - [AnimationController]: drives a value from 0.0 to 1.0 over a duration
//     with an easing curve, notifying listeners on change and completion.
//
// # Basic Usage
//
//	sched := animation.NewScheduler(nil)
//	ctrl := animation.NewAnimationController(sched, 300*time.Millisecond)
//	ctrl.Curve = animation.EaseInOut
//	offset := animation.Span{From: 320, To: 640}
//	ctrl.AddListener(func() {
//	    viewport.SetContentOffset(offset.Transform(ctrl))
//	})
//	ctrl.Forward()
//
//	// In the frame loop
//	sched.Step()
package animation

import (
	"sync"
	"time"
)

// Scheduler steps tickers against a clock.
//
// Tickers are started and stopped from the UI goroutine; Step must be
// called from the same goroutine. HasActiveTickers may be called from any
// goroutine.
type Scheduler struct {
	clock Clock

	mu     sync.Mutex
	active map[*Ticker]struct{}
}

// NewScheduler creates a scheduler reading time from clock. A nil clock uses
// the system clock.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = realClock{}
	}
	return &Scheduler{
		clock:  clock,
		active: make(map[*Ticker]struct{}),
	}
}

// Now returns the current time from the scheduler's clock.
func (s *Scheduler) Now() time.Time { return s.clock.Now() }

// NewTicker creates an inactive ticker bound to this scheduler.
func (s *Scheduler) NewTicker(callback func(elapsed time.Duration)) *Ticker {
	return &Ticker{
		scheduler: s,
		callback:  callback,
	}
}

// Step advances all active tickers.
// This should be called once per frame from the host loop.
func (s *Scheduler) Step() {
	s.mu.Lock()
	if len(s.active) == 0 {
		s.mu.Unlock()
		return
	}
	// Copy so callbacks can start and stop tickers.
	tickers := make([]*Ticker, 0, len(s.active))
	for ticker := range s.active {
		tickers = append(tickers, ticker)
	}
	s.mu.Unlock()

	now := s.clock.Now()
	for _, ticker := range tickers {
		if ticker.isActive && ticker.callback != nil {
			ticker.callback(now.Sub(ticker.start))
		}
	}
}

// HasActiveTickers returns true if any tickers are active.
func (s *Scheduler) HasActiveTickers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active) > 0
}

// Ticker calls a callback on each frame while active.
//
// The callback receives the elapsed time since Start was called. Tickers are
// driven by [Scheduler.Step].
type Ticker struct {
	scheduler *Scheduler
	callback  func(elapsed time.Duration)
	isActive  bool
	start     time.Time
}

// TickerProvider creates tickers.
type TickerProvider interface {
	NewTicker(callback func(elapsed time.Duration)) *Ticker
}

// Start activates the ticker.
func (t *Ticker) Start() {
	if t.isActive {
		return
	}
	t.isActive = true
	t.start = t.scheduler.Now()
	t.scheduler.mu.Lock()
	t.scheduler.active[t] = struct{}{}
	t.scheduler.mu.Unlock()
}

// Stop deactivates the ticker.
func (t *Ticker) Stop() {
	if !t.isActive {
		return
	}
	t.isActive = false
	t.scheduler.mu.Lock()
	delete(t.scheduler.active, t)
	t.scheduler.mu.Unlock()
}

// IsActive returns whether the ticker is currently running.
func (t *Ticker) IsActive() bool {
	return t.isActive
}

// Elapsed returns the time since the ticker started.
func (t *Ticker) Elapsed() time.Duration {
	if !t.isActive {
		return 0
	}
	return t.scheduler.Now().Sub(t.start)
}
