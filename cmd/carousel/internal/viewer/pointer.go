package viewer

import (
	"math"
	"time"
)

// DragSlop is the pointer travel in points before a press becomes a drag.
const DragSlop = 4

// flickTimeout is how long the pointer may rest before release and still
// count as a flick.
const flickTimeout = 100 * time.Millisecond

// Gesture receives the drag and tap calls produced by a Pointer.
// *carousel.Carousel implements it.
type Gesture interface {
	BeginDrag()
	DragBy(dx float64)
	EndDrag(velocity float64)
	Tap()
}

// Pointer turns raw press, move and release events into gestures. A press
// released without travelling past DragSlop is a tap.
type Pointer struct {
	pressed  bool
	dragging bool
	pressX   float64
	lastX    float64
	lastMove time.Time
	velocity float64
}

// Press starts tracking at x.
func (p *Pointer) Press(x float64, now time.Time) {
	*p = Pointer{pressed: true, pressX: x, lastX: x, lastMove: now}
}

// Move reports the pointer at x. It is a no-op unless pressed.
func (p *Pointer) Move(g Gesture, x float64, now time.Time) {
	if !p.pressed {
		return
	}
	if !p.dragging {
		if math.Abs(x-p.pressX) <= DragSlop {
			return
		}
		p.dragging = true
		g.BeginDrag()
	}
	dx := x - p.lastX
	if dx == 0 {
		return
	}
	g.DragBy(dx)
	p.velocity = trackVelocity(p.velocity, dx, now.Sub(p.lastMove))
	p.lastX, p.lastMove = x, now
}

// Release ends the gesture with an EndDrag or a Tap.
func (p *Pointer) Release(g Gesture, now time.Time) {
	if !p.pressed {
		return
	}
	dragging, velocity := p.dragging, p.velocity
	if now.Sub(p.lastMove) > flickTimeout {
		velocity = 0
	}
	*p = Pointer{}
	if dragging {
		g.EndDrag(velocity)
		return
	}
	g.Tap()
}

// Pressed reports whether a press is being tracked.
func (p *Pointer) Pressed() bool { return p.pressed }

// Dragging reports whether the press has become a drag.
func (p *Pointer) Dragging() bool { return p.dragging }

// trackVelocity blends the velocity of the latest move into the running
// estimate, in points per second.
func trackVelocity(prev, dx float64, dt time.Duration) float64 {
	if dt <= 0 {
		return prev
	}
	v := dx / dt.Seconds()
	return 0.8*v + 0.2*prev
}
