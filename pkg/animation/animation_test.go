package animation

import (
	"math"
	"testing"
	"time"
)

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

func (c *stepClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestScheduler() (*Scheduler, *stepClock) {
	clk := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewScheduler(clk), clk
}

func TestTicker_ElapsedAndStop(t *testing.T) {
	sched, clk := newTestScheduler()
	var got []time.Duration
	ticker := sched.NewTicker(func(elapsed time.Duration) {
		got = append(got, elapsed)
	})

	ticker.Start()
	if !sched.HasActiveTickers() {
		t.Fatal("expected an active ticker after Start")
	}
	clk.advance(16 * time.Millisecond)
	sched.Step()
	clk.advance(16 * time.Millisecond)
	sched.Step()
	ticker.Stop()
	clk.advance(16 * time.Millisecond)
	sched.Step()

	if len(got) != 2 {
		t.Fatalf("expected 2 callbacks, got %d", len(got))
	}
	if got[1] != 32*time.Millisecond {
		t.Errorf("expected 32ms elapsed, got %v", got[1])
	}
	if sched.HasActiveTickers() {
		t.Error("expected no active tickers after Stop")
	}
	if ticker.Elapsed() != 0 {
		t.Errorf("stopped ticker Elapsed = %v, want 0", ticker.Elapsed())
	}
}

func TestPeriodic_FiresOncePerInterval(t *testing.T) {
	sched, clk := newTestScheduler()
	fired := 0
	p := sched.Every(time.Second, func() { fired++ })

	for i := 0; i < 10; i++ {
		clk.advance(100 * time.Millisecond)
		sched.Step()
	}
	if fired != 1 {
		t.Errorf("expected 1 fire after 1s, got %d", fired)
	}

	// A late frame covering several intervals fires once.
	clk.advance(3 * time.Second)
	sched.Step()
	if fired != 2 {
		t.Errorf("expected 2 fires after a late frame, got %d", fired)
	}

	p.Stop()
	clk.advance(5 * time.Second)
	sched.Step()
	if fired != 2 {
		t.Errorf("stopped timer fired: %d", fired)
	}
	if p.Active() {
		t.Error("expected Active() false after Stop")
	}
}

func TestPeriodic_NilSafe(t *testing.T) {
	var p *Periodic
	p.Stop()
	if p.Active() {
		t.Error("nil Periodic reported active")
	}
	if p.Interval() != 0 {
		t.Error("nil Periodic reported an interval")
	}
}

func TestPeriodic_StopInsideCallback(t *testing.T) {
	sched, clk := newTestScheduler()
	fired := 0
	var p *Periodic
	p = sched.Every(10*time.Millisecond, func() {
		fired++
		p.Stop()
	})
	for i := 0; i < 5; i++ {
		clk.advance(10 * time.Millisecond)
		sched.Step()
	}
	if fired != 1 {
		t.Errorf("expected 1 fire, got %d", fired)
	}
}

func TestAnimationController_PlayCompletes(t *testing.T) {
	sched, clk := newTestScheduler()
	c := NewAnimationController(sched, 300*time.Millisecond)
	var statuses []AnimationStatus
	c.AddStatusListener(func(s AnimationStatus) { statuses = append(statuses, s) })
	done := 0

	c.Play(func() { done++ })
	if !c.IsAnimating() {
		t.Fatal("expected controller to be animating after Play")
	}

	clk.advance(150 * time.Millisecond)
	sched.Step()
	if math.Abs(c.Value-0.5) > 1e-9 {
		t.Errorf("expected value 0.5 at half duration, got %v", c.Value)
	}

	clk.advance(200 * time.Millisecond)
	sched.Step()
	if c.Value != 1 {
		t.Errorf("expected value 1 after duration, got %v", c.Value)
	}
	if done != 1 {
		t.Errorf("expected done once, got %d", done)
	}
	if c.Status() != AnimationCompleted {
		t.Errorf("expected completed, got %v", c.Status())
	}
	if c.IsAnimating() {
		t.Error("expected controller to stop after completion")
	}
	if len(statuses) == 0 || statuses[len(statuses)-1] != AnimationCompleted {
		t.Errorf("unexpected status sequence %v", statuses)
	}
}

func TestAnimationController_StopDropsDone(t *testing.T) {
	sched, clk := newTestScheduler()
	c := NewAnimationController(sched, 100*time.Millisecond)
	done := false
	c.Play(func() { done = true })

	clk.advance(50 * time.Millisecond)
	sched.Step()
	c.Stop()
	clk.advance(time.Second)
	sched.Step()

	if done {
		t.Error("done fired after Stop")
	}
	if c.Value <= 0 || c.Value >= 1 {
		t.Errorf("expected value frozen mid-flight, got %v", c.Value)
	}
}

func TestAnimationController_ZeroDuration(t *testing.T) {
	sched, clk := newTestScheduler()
	c := NewAnimationController(sched, 0)
	done := false
	c.Play(func() { done = true })
	clk.advance(time.Millisecond)
	sched.Step()
	if !done || c.Value != 1 {
		t.Errorf("zero duration should complete on the next frame (done=%v value=%v)", done, c.Value)
	}
}

func TestSpan(t *testing.T) {
	s := Span{From: 320, To: 640}
	if got := s.At(0.25); got != 400 {
		t.Errorf("At(0.25) = %v, want 400", got)
	}
	if got := s.At(1.2); got != 640 {
		t.Errorf("At past the end = %v, want 640", got)
	}
	if s.Empty(1e-6) || !(Span{From: 1, To: 1}).Empty(1e-6) {
		t.Error("unexpected Empty result")
	}
}

func TestCubicBezierEndpoints(t *testing.T) {
	for _, curve := range []func(float64) float64{EaseOut, EaseInOut} {
		if curve(0) != 0 || curve(1) != 1 {
			t.Error("curve endpoints must be 0 and 1")
		}
		if v := curve(0.5); v <= 0 || v >= 1 {
			t.Errorf("curve(0.5) = %v, want in (0,1)", v)
		}
	}
}

func TestAnimationStatusString(t *testing.T) {
	if AnimationStatus(9).String() != "AnimationStatus(9)" {
		t.Errorf("unexpected string %q", AnimationStatus(9).String())
	}
}
