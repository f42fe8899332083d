package animation

import (
	"fmt"
	"time"
)

// AnimationStatus represents the current state of an animation.
//
// The status follows this state machine:
//
//	            Forward() / Play()
//	Dismissed ──────────────────► Completed
//	    ▲                              │
//	    │          Reset()             │
//	    └──────────────────────────────┘
//
// While animating, status is AnimationForward. Stop leaves the status at
// AnimationForward with the value frozen; only reaching the upper bound
// produces AnimationCompleted.
type AnimationStatus int

const (
	// AnimationDismissed means the animation is stopped at 0.0.
	AnimationDismissed AnimationStatus = iota
	// AnimationForward means the animation is playing toward 1.0.
	AnimationForward
	// AnimationCompleted means the animation reached 1.0.
	AnimationCompleted
)

// String returns a human-readable representation of the animation status.
func (s AnimationStatus) String() string {
	switch s {
	case AnimationDismissed:
		return "dismissed"
	case AnimationForward:
		return "forward"
	case AnimationCompleted:
		return "completed"
	default:
		return fmt.Sprintf("AnimationStatus(%d)", int(s))
	}
}

// AnimationController drives an animation by producing values over time.
//
// The controller moves Value from 0.0 to 1.0 over Duration. The Curve
// function transforms linear progress into eased motion. Use [Span] to map
// the value to a content offset or an opacity.
//
// A carousel keeps one controller per transition and reuses it through
// [AnimationController.Play]. Always call Dispose when done.
type AnimationController struct {
	// Value is the current animation value, ranging from 0.0 to 1.0.
	Value float64

	// Duration is the length of the animation. A non-positive duration jumps
	// to 1.0 on the next frame.
	Duration time.Duration

	// Curve transforms linear progress (optional).
	Curve func(float64) float64

	provider        TickerProvider
	status          AnimationStatus
	ticker          *Ticker
	startValue      float64
	done            func()
	listeners       map[int]func()
	statusListeners map[int]func(AnimationStatus)
	nextListenerID  int
}

// NewAnimationController creates an animation controller with the given
// duration whose tickers come from provider.
func NewAnimationController(provider TickerProvider, duration time.Duration) *AnimationController {
	return &AnimationController{
		Duration:        duration,
		Curve:           LinearCurve,
		provider:        provider,
		status:          AnimationDismissed,
		listeners:       make(map[int]func()),
		statusListeners: make(map[int]func(AnimationStatus)),
	}
}

// Forward animates from the current value to 1.0.
func (c *AnimationController) Forward() {
	c.Stop()
	c.startValue = c.Value
	c.setStatus(AnimationForward)

	c.ticker = c.provider.NewTicker(c.tick)
	c.ticker.Start()
}

// Play restarts the animation from 0.0 and calls done once it completes.
// A Stop or another Play before completion drops done.
func (c *AnimationController) Play(done func()) {
	c.Stop()
	c.Value = 0
	c.setStatus(AnimationDismissed)
	c.notifyListeners()
	c.Forward()
	c.done = done
}

func (c *AnimationController) tick(elapsed time.Duration) {
	progress := 1.0
	if c.Duration > 0 {
		progress = float64(elapsed) / float64(c.Duration)
		if progress > 1 {
			progress = 1
		}
	}

	eased := progress
	if c.Curve != nil {
		eased = c.Curve(progress)
	}
	c.Value = c.startValue + (1-c.startValue)*eased
	c.notifyListeners()

	if progress >= 1 {
		c.complete()
	}
}

func (c *AnimationController) complete() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	c.Value = 1
	done := c.done
	c.done = nil
	c.setStatus(AnimationCompleted)
	if done != nil {
		done()
	}
}

// Reset immediately sets the value to 0.0.
func (c *AnimationController) Reset() {
	c.Stop()
	c.Value = 0
	c.setStatus(AnimationDismissed)
	c.notifyListeners()
}

// Stop stops the animation at the current value.
func (c *AnimationController) Stop() {
	c.done = nil
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

// Status returns the current animation status.
func (c *AnimationController) Status() AnimationStatus {
	return c.status
}

// IsAnimating returns true if the animation is currently running.
func (c *AnimationController) IsAnimating() bool {
	return c.ticker != nil && c.ticker.IsActive()
}

// AddListener adds a callback that fires whenever the value changes.
// Returns an unsubscribe function.
func (c *AnimationController) AddListener(fn func()) func() {
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn
	return func() {
		delete(c.listeners, id)
	}
}

// AddStatusListener adds a callback that fires whenever the status changes.
// Returns an unsubscribe function.
func (c *AnimationController) AddStatusListener(fn func(AnimationStatus)) func() {
	id := c.nextListenerID
	c.nextListenerID++
	c.statusListeners[id] = fn
	return func() {
		delete(c.statusListeners, id)
	}
}

func (c *AnimationController) setStatus(status AnimationStatus) {
	if c.status == status {
		return
	}
	c.status = status
	for _, listener := range c.statusListeners {
		listener(status)
	}
}

func (c *AnimationController) notifyListeners() {
	for _, listener := range c.listeners {
		listener()
	}
}

// Dispose cleans up resources used by the controller.
func (c *AnimationController) Dispose() {
	c.Stop()
	c.listeners = nil
	c.statusListeners = nil
}
