package testing

import (
	"fmt"
	"io/fs"
	"testing"
	"time"

	"github.com/go-drift/carousel/pkg/animation"
	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/engine"
	"github.com/go-drift/carousel/pkg/imageload"
)

// DefaultFrameInterval is the harness frame period. It divides the default
// timer and transition durations evenly.
const DefaultFrameInterval = 10 * time.Millisecond

// Bounds is a convenient 320×200 carousel frame.
var Bounds = carousel.Rect{Width: 320, Height: 200}

// Harness wires a carousel to a fake clock, a real engine loop and fake
// collaborators.
type Harness struct {
	t testing.TB

	Clock     *FakeClock
	Scheduler *animation.Scheduler
	Loop      *engine.Loop
	Fetcher   *FakeFetcher
	Viewport  *FakeViewport
	Indicator *FakeIndicator

	// Assets, when set before Mount, backs asset items.
	Assets fs.FS

	// FrameInterval is the clock advance per frame.
	FrameInterval time.Duration

	Loader   *imageload.Loader
	Carousel *carousel.Carousel

	// Commits records every committed state in order.
	Commits []carousel.State
}

// NewHarness creates a harness whose resources are released when t
// finishes.
func NewHarness(t testing.TB) *Harness {
	t.Helper()
	clock := NewFakeClock()
	sched := animation.NewScheduler(clock)
	h := &Harness{
		t:             t,
		Clock:         clock,
		Scheduler:     sched,
		Loop:          engine.NewLoop(sched),
		Fetcher:       NewFakeFetcher(),
		Viewport:      NewFakeViewport(),
		Indicator:     &FakeIndicator{},
		FrameInterval: DefaultFrameInterval,
	}
	t.Cleanup(h.teardown)
	return h
}

// Mount creates the carousel under test.
func (h *Harness) Mount(bounds carousel.Rect, items []any, cfg carousel.Config, onSelect carousel.SelectFunc) *carousel.Carousel {
	h.t.Helper()
	opts := imageload.Options{
		Fetcher:    h.Fetcher,
		Dispatcher: h.Loop,
	}
	if h.Assets != nil {
		assets, err := imageload.NewFSAssets(h.Assets, nil, 0)
		if err != nil {
			h.t.Fatalf("assets: %v", err)
		}
		opts.Assets = assets
	}
	h.Loader = imageload.New(opts)
	h.Carousel = carousel.New(bounds, items, onSelect, cfg, carousel.Deps{
		Loader:    h.Loader,
		Scheduler: h.Scheduler,
		Viewport:  h.Viewport,
		Indicator: h.Indicator,
		OnCommit:  func(s carousel.State) { h.Commits = append(h.Commits, s) },
	})
	return h.Carousel
}

// Frame advances the clock by one frame and runs it.
func (h *Harness) Frame() {
	h.Clock.Advance(h.FrameInterval)
	h.Loop.StepFrame()
}

// Pump advances time by d one frame at a time. Pump(0) runs a single frame
// without advancing the clock.
func (h *Harness) Pump(d time.Duration) {
	if d <= 0 {
		h.Loop.StepFrame()
		return
	}
	for d > 0 {
		step := min(h.FrameInterval, d)
		h.Clock.Advance(step)
		h.Loop.StepFrame()
		d -= step
	}
}

// Settle waits for in-flight loads and runs a frame to deliver them.
func (h *Harness) Settle() {
	if h.Loader != nil {
		h.Loader.Wait()
	}
	h.Loop.StepFrame()
}

// PumpUntilIdle pumps frames until the carousel is idle with no loads in
// flight, or returns an error once timeout of fake time has passed.
func (h *Harness) PumpUntilIdle(timeout time.Duration) error {
	for elapsed := time.Duration(0); elapsed <= timeout; elapsed += h.FrameInterval {
		h.Settle()
		if h.Carousel == nil || h.Carousel.Snapshot().Phase == carousel.Idle {
			return nil
		}
		h.Frame()
	}
	return fmt.Errorf("carousel not idle after %v: phase %v", timeout, h.Carousel.Snapshot().Phase)
}

func (h *Harness) teardown() {
	h.Fetcher.Release()
	if h.Carousel != nil {
		h.Carousel.Dispose()
	}
	if h.Loader != nil {
		h.Loader.Close()
		h.Loader.Wait()
	}
}
