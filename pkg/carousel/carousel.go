package carousel

import (
	"fmt"
	"math"

	"github.com/go-drift/carousel/pkg/animation"
	"github.com/go-drift/carousel/pkg/imageload"
	"github.com/go-drift/carousel/pkg/imagesource"
)

// Phase is the state machine phase.
type Phase int

const (
	// Idle is settled and eligible for autoplay.
	Idle Phase = iota
	// Dragging follows the user's finger; autoplay is suspended.
	Dragging
	// Transitioning animates toward a page boundary; autoplay is suspended.
	Transitioning
	// Committed is the step between a finished transition and Idle. It is
	// observable only from a commit callback.
	Committed
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Transitioning:
		return "transitioning"
	case Committed:
		return "committed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Direction is the direction of a pending transition.
type Direction int

const (
	// None means no transition is pending.
	None Direction = iota
	// Forward reveals the next item, from the right.
	Forward
	// Backward reveals the previous item, from the left.
	Backward
)

// String returns a human-readable representation of the direction.
func (d Direction) String() string {
	switch d {
	case None:
		return "none"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d Direction) step() int {
	switch d {
	case Forward:
		return 1
	case Backward:
		return -1
	}
	return 0
}

// State is a snapshot of the state machine.
type State struct {
	CurrentIndex int
	// NextIndex is the target of the pending transition, or the look-ahead
	// in the last committed direction when settled.
	NextIndex   int
	Direction   Direction
	Phase       Phase
	Dragging    bool
	Autoplaying bool
}

// SelectFunc is called when the visible image is tapped.
type SelectFunc func(c *Carousel, index int)

// Loader resolves item sources. *imageload.Loader implements it.
type Loader interface {
	Load(src imagesource.Source, index int, deliver func(imageload.Result)) (imageload.Result, bool)
	Close()
}

// Deps are the collaborators of a Carousel. Loader and Scheduler are
// required; a nil Viewport or Indicator discards updates.
type Deps struct {
	Loader    Loader
	Scheduler *animation.Scheduler
	Viewport  Viewport
	Indicator Indicator

	// OnCommit, if set, is called after every committed transition with the
	// phase still at Committed and the committed direction.
	OnCommit func(State)
}

// offsetEpsilon is the distance below which two content offsets are equal.
const offsetEpsilon = 1e-6

// Carousel is an image carousel.
type Carousel struct {
	cfg      Config
	bounds   Rect
	slots    *Slots
	onSelect SelectFunc
	onCommit func(State)

	loader    Loader
	scheduler *animation.Scheduler
	viewport  Viewport
	indicator Indicator
	buffers   *buffers

	state State
	timer *animation.Periodic

	slide     *animation.AnimationController
	slideSpan animation.Span
	fade      *animation.AnimationController

	paused   bool
	disposed bool
}

// New creates a carousel showing items within bounds and starts autoplay
// when there is more than one item. Items are *imagesource.Bitmap,
// image.Image, asset name or URL strings, or *url.URL values; anything else
// shows an empty page. An empty items list yields an inert carousel.
//
// New panics if deps.Loader or deps.Scheduler is nil.
func New(bounds Rect, items []any, onSelect SelectFunc, cfg Config, deps Deps) *Carousel {
	if deps.Loader == nil || deps.Scheduler == nil {
		panic("carousel: Deps.Loader and Deps.Scheduler are required")
	}
	if deps.Viewport == nil {
		deps.Viewport = &nopViewport{}
	}
	if deps.Indicator == nil {
		deps.Indicator = nopIndicator{}
	}

	c := &Carousel{
		cfg:       cfg.withDefaults(),
		bounds:    bounds,
		slots:     NewSlots(items),
		onSelect:  onSelect,
		onCommit:  deps.OnCommit,
		loader:    deps.Loader,
		scheduler: deps.Scheduler,
		viewport:  deps.Viewport,
		indicator: deps.Indicator,
		buffers:   newBuffers(deps.Viewport),
	}

	c.slide = animation.NewAnimationController(c.scheduler, c.cfg.TransitionDuration)
	c.slide.Curve = animation.EaseOut
	c.slide.AddListener(c.onSlideValue)
	c.fade = animation.NewAnimationController(c.scheduler, c.cfg.FadeDuration)
	c.fade.Curve = animation.EaseInOut
	c.fade.AddListener(func() { c.buffers.SetFade(c.fade.Value) })

	n := c.slots.Len()
	if n > 0 {
		c.state.NextIndex = 1 % n
	}

	c.indicator.SetPageCount(n)
	c.indicator.SetCurrentPage(0)
	c.indicator.SetHidden(n <= 1)
	c.indicator.SetFrame(IndicatorFrame(bounds, n, c.cfg.IndicatorPosition))

	c.buffers.Layout(bounds.Width, bounds.Height, n <= 1)
	if n == 0 {
		return c
	}
	c.load(0, true)
	c.startTimer()
	return c
}

// Len returns the number of items.
func (c *Carousel) Len() int { return c.slots.Len() }

// Slots returns the item arena.
func (c *Carousel) Slots() *Slots { return c.slots }

// Config returns the resolved configuration.
func (c *Carousel) Config() Config { return c.cfg }

// Bounds returns the carousel bounds.
func (c *Carousel) Bounds() Rect { return c.bounds }

// Snapshot returns the current state.
func (c *Carousel) Snapshot() State { return c.state }

// Visible returns the visible display buffer.
func (c *Carousel) Visible() Buffer { return c.buffers.Visible() }

// Pending returns the display buffer that is not at rest.
func (c *Carousel) Pending() Buffer { return c.buffers.Pending() }

// Tick advances to the next item as the autoplay timer does. It does
// nothing unless the carousel is idle with more than one item.
func (c *Carousel) Tick() {
	n := c.slots.Len()
	if c.disposed || n <= 1 || c.state.Phase != Idle {
		return
	}
	c.stopTimer()

	if c.cfg.TransitionMode == CrossFade {
		c.setDirection(Forward)
		c.buffers.PrepareFade()
		c.indicator.SetCurrentPage(c.state.NextIndex)
		c.state.Phase = Transitioning
		c.fade.Play(func() { c.commit(Forward) })
		return
	}

	c.setDirection(Forward)
	c.animateTo(c.buffers.Rest() + c.bounds.Width)
}

// BeginDrag starts a drag. It interrupts a running slide and stops the
// autoplay timer. Drags are ignored with fewer than two items and during a
// cross-fade.
func (c *Carousel) BeginDrag() {
	if c.disposed || c.slots.Len() <= 1 {
		return
	}
	switch c.state.Phase {
	case Dragging:
		return
	case Transitioning:
		if c.fade.IsAnimating() {
			return
		}
		c.slide.Stop()
	}
	c.stopTimer()
	c.state.Phase = Dragging
	c.state.Dragging = true
}

// DragBy moves the content with the finger by dx points; a positive dx
// moves toward the previous item.
func (c *Carousel) DragBy(dx float64) {
	if c.state.Phase != Dragging {
		return
	}
	w := c.bounds.Width
	offset := clamp(c.viewport.ContentOffset()-dx, 0, 2*w)
	c.viewport.SetContentOffset(offset)
	c.track(offset)
}

// EndDrag releases the drag with the finger's horizontal velocity in points
// per second, positive toward the right. The content settles on the
// dragged-toward page if it moved past half a page or was flicked, and
// snaps back otherwise.
func (c *Carousel) EndDrag(velocity float64) {
	if c.state.Phase != Dragging {
		return
	}
	c.state.Dragging = false

	w := c.bounds.Width
	rest := c.buffers.Rest()
	offset := c.viewport.ContentOffset()
	delta := offset - rest
	flick := 0.0
	if w > 0 {
		flick = velocity / w
	}

	target := rest
	switch {
	case delta > offsetEpsilon && (delta >= w/2 || -flick >= c.cfg.FlickVelocity):
		target = rest + w
	case delta < -offsetEpsilon && (-delta >= w/2 || flick >= c.cfg.FlickVelocity):
		target = rest - w
	}
	c.animateTo(target)
}

// Tap reports a tap on the visible image.
func (c *Carousel) Tap() {
	if c.disposed || c.onSelect == nil || c.slots.Len() == 0 {
		return
	}
	c.onSelect(c, c.state.CurrentIndex)
}

// SetBounds lays the carousel out for new bounds. A drag or transition in
// progress is abandoned without committing.
func (c *Carousel) SetBounds(bounds Rect) {
	if c.disposed {
		return
	}
	c.slide.Stop()
	c.fade.Stop()
	c.bounds = bounds
	n := c.slots.Len()
	c.indicator.SetFrame(IndicatorFrame(bounds, n, c.cfg.IndicatorPosition))
	c.buffers.Layout(bounds.Width, bounds.Height, n <= 1)
	if c.state.Phase != Idle {
		c.indicator.SetCurrentPage(c.state.CurrentIndex)
		c.settleIdle()
	}
}

// Pause stops autoplay until Resume.
func (c *Carousel) Pause() {
	c.paused = true
	c.stopTimer()
}

// Resume restarts autoplay after Pause. The timer restarts only once the
// carousel is idle.
func (c *Carousel) Resume() {
	if !c.paused {
		return
	}
	c.paused = false
	if c.state.Phase == Idle {
		c.startTimer()
	}
}

// Dispose stops the timer and animations and closes the loader. Loads that
// complete later are dropped.
func (c *Carousel) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.stopTimer()
	c.slide.Dispose()
	c.fade.Dispose()
	c.loader.Close()
}

func (c *Carousel) animateTo(target float64) {
	c.state.Phase = Transitioning
	c.slideSpan = animation.Span{From: c.viewport.ContentOffset(), To: target}
	if c.slideSpan.Empty(offsetEpsilon) {
		c.viewport.SetContentOffset(target)
		c.settle()
		return
	}
	c.slide.Play(func() {
		c.viewport.SetContentOffset(c.slideSpan.To)
		c.settle()
	})
}

func (c *Carousel) onSlideValue() {
	if c.state.Phase != Transitioning {
		return
	}
	offset := c.slideSpan.Transform(c.slide)
	c.viewport.SetContentOffset(offset)
	if c.slide.Value > 0 {
		c.track(offset)
	}
}

// track derives the direction from the content offset.
func (c *Carousel) track(offset float64) {
	rest := c.buffers.Rest()
	switch {
	case offset > rest+offsetEpsilon:
		c.setDirection(Forward)
	case offset < rest-offsetEpsilon:
		c.setDirection(Backward)
	default:
		c.state.Direction = None
	}
}

// setDirection points the pending transition at the neighbour in dir and
// loads it into the pending buffer. Within one transition each direction
// change loads once; memoized items resolve without a fetch.
func (c *Carousel) setDirection(dir Direction) {
	if dir == c.state.Direction {
		return
	}
	c.state.Direction = dir
	c.state.NextIndex = wrap(c.state.CurrentIndex+dir.step(), c.slots.Len())
	c.buffers.RepositionForDirection(dir)
	c.load(c.state.NextIndex, false)
}

// settle runs when a slide reaches its target.
func (c *Carousel) settle() {
	if math.Abs(c.viewport.ContentOffset()-c.buffers.Rest()) < offsetEpsilon {
		c.settleIdle()
		return
	}
	c.commit(c.state.Direction)
}

func (c *Carousel) commit(dir Direction) {
	n := c.slots.Len()
	c.state.CurrentIndex = c.state.NextIndex
	c.state.NextIndex = wrap(c.state.CurrentIndex+dir.step(), n)
	c.state.Direction = dir
	c.state.Phase = Committed
	c.buffers.SwapVisible()
	c.buffers.ResetToRest()
	c.indicator.SetCurrentPage(c.state.CurrentIndex)
	if c.onCommit != nil {
		c.onCommit(c.state)
	}
	c.settleIdle()
}

// settleIdle returns to Idle without changing the current item.
func (c *Carousel) settleIdle() {
	c.state.Direction = None
	c.state.Phase = Idle
	c.state.Dragging = false
	c.buffers.ResetToRest()
	c.startTimer()
}

// load resolves item index into the visible or the pending buffer.
func (c *Carousel) load(index int, visible bool) {
	src := c.slots.Source(index)
	res, done := c.loader.Load(src, index, func(res imageload.Result) {
		c.loaded(src, index, res)
	})
	switch {
	case done && visible:
		c.buffers.BindVisible(index, res.Bitmap)
	case done:
		c.buffers.BindNext(index, res.Bitmap)
	case visible:
		c.buffers.ReserveVisible(index)
	default:
		c.buffers.ReserveNext(index)
	}
}

// loaded receives a remote load on the UI goroutine. A failed load leaves
// the buffers untouched. A stale result is still memoized but only shown by
// a buffer that is bound to the same index.
func (c *Carousel) loaded(src imagesource.Source, index int, res imageload.Result) {
	if c.disposed || res.Err != nil || res.Bitmap == nil {
		return
	}
	if c.cfg.AutoCache && src.Kind == imagesource.KindRemote {
		c.slots.Set(index, res.Bitmap)
	}
	c.buffers.ApplyLoaded(index, res.Bitmap)
}

func (c *Carousel) startTimer() {
	if c.disposed || c.paused || c.slots.Len() <= 1 {
		return
	}
	c.timer.Stop()
	c.timer = c.scheduler.Every(c.cfg.TimeInterval, c.Tick)
	c.state.Autoplaying = true
}

func (c *Carousel) stopTimer() {
	c.timer.Stop()
	c.timer = nil
	c.state.Autoplaying = false
}

// wrap reduces i into [0, n).
func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
