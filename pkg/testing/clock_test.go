package testing

import (
	"testing"
	"time"
)

func TestFakeClock_Advance(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()

	clk.Advance(100 * time.Millisecond)
	elapsed := clk.Now().Sub(start)

	if elapsed != 100*time.Millisecond {
		t.Errorf("expected 100ms elapsed, got %v", elapsed)
	}
}

func TestFakeClock_StartsAtEpoch(t *testing.T) {
	clk := NewFakeClock()
	if !clk.Now().Equal(Epoch) || clk.Elapsed() != 0 {
		t.Errorf("expected %v with nothing elapsed, got %v (%v)", Epoch, clk.Now(), clk.Elapsed())
	}
	clk.Advance(time.Second)
	clk.Advance(500 * time.Millisecond)
	if clk.Elapsed() != 1500*time.Millisecond {
		t.Errorf("expected 1.5s elapsed, got %v", clk.Elapsed())
	}
}

func TestFakeClock_Set(t *testing.T) {
	clk := NewFakeClock()
	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	clk.Set(target)
	if !clk.Now().Equal(target) {
		t.Errorf("expected %v, got %v", target, clk.Now())
	}
}

func TestHarness_PumpDrivesScheduler(t *testing.T) {
	h := NewHarness(t)
	fired := 0
	p := h.Scheduler.Every(100*time.Millisecond, func() { fired++ })
	defer p.Stop()

	h.Pump(250 * time.Millisecond)
	if fired != 2 {
		t.Errorf("expected 2 firings after 250ms, got %d", fired)
	}
	if got := h.Clock.Now().Sub(NewFakeClock().Now()); got != 250*time.Millisecond {
		t.Errorf("expected clock at +250ms, got %v", got)
	}
}

func TestHarness_PumpZeroRunsOneFrame(t *testing.T) {
	h := NewHarness(t)
	before := h.Loop.FrameCount()
	h.Pump(0)
	if h.Loop.FrameCount() != before+1 {
		t.Errorf("expected one frame, got %d", h.Loop.FrameCount()-before)
	}
}
