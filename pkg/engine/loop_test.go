package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-drift/carousel/pkg/animation"
	"github.com/go-drift/carousel/pkg/errors"
)

func TestLoop_DispatchRunsOnStep(t *testing.T) {
	loop := NewLoop(nil)
	var order []int
	loop.Dispatch(func() { order = append(order, 1) })
	loop.Dispatch(func() { order = append(order, 2) })

	if !loop.NeedsFrame() {
		t.Fatal("expected NeedsFrame with queued callbacks")
	}
	loop.StepFrame()

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("expected FIFO order [1 2], got %v", order)
	}
	if loop.NeedsFrame() {
		t.Error("expected no pending work after StepFrame")
	}
	if loop.FrameCount() != 1 {
		t.Errorf("FrameCount = %d, want 1", loop.FrameCount())
	}
}

func TestLoop_NestedDispatchRunsNextFrame(t *testing.T) {
	loop := NewLoop(nil)
	ran := false
	loop.Dispatch(func() {
		loop.Dispatch(func() { ran = true })
	})
	loop.StepFrame()
	if ran {
		t.Fatal("nested dispatch should wait for the next frame")
	}
	loop.StepFrame()
	if !ran {
		t.Error("nested dispatch did not run on the next frame")
	}
}

func TestLoop_DispatchFromGoroutines(t *testing.T) {
	loop := NewLoop(nil)
	var wg sync.WaitGroup
	count := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loop.Dispatch(func() { count++ })
		}()
	}
	wg.Wait()
	loop.StepFrame()
	if count != 50 {
		t.Errorf("expected 50 callbacks, got %d", count)
	}
}

func TestLoop_PanicIsRecovered(t *testing.T) {
	var captured *errors.PanicError
	old := errors.SetHandler(errors.HandlerFuncs{Panic: func(p *errors.PanicError) { captured = p }})
	defer errors.SetHandler(old)

	loop := NewLoop(nil)
	after := false
	loop.Dispatch(func() { panic("boom") })
	loop.Dispatch(func() { after = true })
	loop.StepFrame()

	if captured == nil || captured.Op != "engine.Dispatch" {
		t.Fatalf("expected recovered panic from engine.Dispatch, got %+v", captured)
	}
	if !after {
		t.Error("callbacks after a panic should still run")
	}
}

func TestLoop_StepsTickers(t *testing.T) {
	sched := animation.NewScheduler(nil)
	loop := NewLoop(sched)
	ticks := 0
	ticker := sched.NewTicker(func(time.Duration) { ticks++ })
	ticker.Start()
	defer ticker.Stop()

	if !loop.NeedsFrame() {
		t.Fatal("expected NeedsFrame with an active ticker")
	}
	loop.StepFrame()
	loop.StepFrame()
	if ticks != 2 {
		t.Errorf("expected 2 ticks, got %d", ticks)
	}
}

func TestLoop_RunStopsOnCancel(t *testing.T) {
	loop := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	loop.Dispatch(func() {
		cancel()
		close(done)
	})

	err := loop.Run(ctx, time.Millisecond)
	if err != context.Canceled {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
	select {
	case <-done:
	default:
		t.Error("dispatched callback did not run")
	}
}

func TestDispatchFunc(t *testing.T) {
	called := false
	var d Dispatcher = DispatchFunc(func(cb func()) { cb() })
	d.Dispatch(func() { called = true })
	if !called {
		t.Error("DispatchFunc did not forward the callback")
	}
}
