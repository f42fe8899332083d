// Package engine runs the single UI goroutine that owns carousel state.
//
// A [Loop] drains callbacks dispatched from other goroutines and steps the
// animation scheduler, once per frame. Everything that touches a carousel,
// its display buffers or its page indicator runs inside [Loop.StepFrame].
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-drift/carousel/pkg/animation"
	"github.com/go-drift/carousel/pkg/errors"
)

// DefaultFrameInterval is the frame period used by [Loop.Run] when none is
// given.
const DefaultFrameInterval = time.Second / 60

// Dispatcher schedules callbacks on the UI goroutine.
type Dispatcher interface {
	// Dispatch queues callback and is safe to call from any goroutine.
	Dispatch(callback func())
}

// DispatchFunc adapts a function to the Dispatcher interface.
type DispatchFunc func(callback func())

// Dispatch calls f(callback).
func (f DispatchFunc) Dispatch(callback func()) { f(callback) }

// Loop is a cooperative frame loop.
type Loop struct {
	scheduler *animation.Scheduler

	dispatchMu    sync.Mutex
	dispatchQueue []func()

	pendingFrameRequest atomic.Bool
	frames              atomic.Uint64
	trace               atomic.Pointer[FrameTraceBuffer]
}

// NewLoop creates a loop stepping scheduler. A nil scheduler uses the
// system clock.
func NewLoop(scheduler *animation.Scheduler) *Loop {
	if scheduler == nil {
		scheduler = animation.NewScheduler(nil)
	}
	return &Loop{scheduler: scheduler}
}

// Scheduler returns the animation scheduler stepped by the loop.
func (l *Loop) Scheduler() *animation.Scheduler { return l.scheduler }

// Dispatch schedules a callback to run on the UI goroutine during the next
// frame and is safe to call from any goroutine.
func (l *Loop) Dispatch(callback func()) {
	if callback == nil {
		return
	}
	l.dispatchMu.Lock()
	l.dispatchQueue = append(l.dispatchQueue, callback)
	l.dispatchMu.Unlock()
	l.RequestFrame()
}

// RequestFrame marks the loop as having work for the next frame.
func (l *Loop) RequestFrame() {
	l.pendingFrameRequest.Store(true)
}

// NeedsFrame reports whether a frame would do any work: queued callbacks,
// an explicit request, or running tickers.
func (l *Loop) NeedsFrame() bool {
	if l.pendingFrameRequest.Load() {
		return true
	}
	l.dispatchMu.Lock()
	hasCallbacks := len(l.dispatchQueue) > 0
	l.dispatchMu.Unlock()
	if hasCallbacks {
		return true
	}
	return l.scheduler.HasActiveTickers()
}

// StepFrame runs one frame on the calling goroutine: queued callbacks in
// FIFO order, then tickers. Callbacks dispatched while draining run on the
// next frame. A panicking callback is reported and does not stop the frame.
func (l *Loop) StepFrame() {
	trace := l.trace.Load()
	var start time.Time
	if trace != nil {
		start = time.Now()
	}

	l.pendingFrameRequest.Store(false)
	callbacks := l.drainDispatchQueue()
	for _, callback := range callbacks {
		runRecovered("engine.Dispatch", callback)
	}
	var dispatched time.Time
	if trace != nil {
		dispatched = time.Now()
	}
	runRecovered("engine.StepTickers", l.scheduler.Step)
	l.frames.Add(1)

	if trace != nil {
		end := time.Now()
		trace.Add(FrameSample{
			Timestamp:  start.UnixMilli(),
			FrameMs:    durationToMillis(end.Sub(start)),
			DispatchMs: durationToMillis(dispatched.Sub(start)),
			AnimateMs:  durationToMillis(end.Sub(dispatched)),
			Callbacks:  len(callbacks),
		}, end.Sub(start))
	}
}

// SetFrameTrace records a sample per frame into trace. A nil trace disables
// tracing.
func (l *Loop) SetFrameTrace(trace *FrameTraceBuffer) { l.trace.Store(trace) }

// FrameTrace returns the active frame trace, or nil.
func (l *Loop) FrameTrace() *FrameTraceBuffer { return l.trace.Load() }

// FrameCount returns the number of frames stepped so far.
func (l *Loop) FrameCount() uint64 { return l.frames.Load() }

// Run steps frames every interval until ctx is done, skipping frames with
// nothing to do. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.NeedsFrame() {
				l.StepFrame()
			}
		}
	}
}

func (l *Loop) drainDispatchQueue() []func() {
	l.dispatchMu.Lock()
	callbacks := l.dispatchQueue
	l.dispatchQueue = nil
	l.dispatchMu.Unlock()
	return callbacks
}

func runRecovered(op string, fn func()) {
	defer errors.Recover(op)
	fn()
}
