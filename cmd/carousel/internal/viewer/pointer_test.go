package viewer

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type gestureLog []string

func (g *gestureLog) BeginDrag()               { *g = append(*g, "begin") }
func (g *gestureLog) DragBy(dx float64)        { *g = append(*g, fmt.Sprintf("drag %g", dx)) }
func (g *gestureLog) EndDrag(velocity float64) { *g = append(*g, fmt.Sprintf("end %g", velocity)) }
func (g *gestureLog) Tap()                     { *g = append(*g, "tap") }

func TestPointer_Tap(t *testing.T) {
	var g gestureLog
	var p Pointer
	now := time.Unix(0, 0)

	p.Press(100, now)
	p.Move(&g, 103, now.Add(10*time.Millisecond))
	p.Release(&g, now.Add(20*time.Millisecond))

	if diff := cmp.Diff(gestureLog{"tap"}, g); diff != "" {
		t.Errorf("gestures mismatch (-want +got):\n%s", diff)
	}
	if p.Pressed() {
		t.Error("expected pointer to be released")
	}
}

func TestPointer_DragAndFlick(t *testing.T) {
	var g gestureLog
	var p Pointer
	now := time.Unix(0, 0)

	p.Press(100, now)
	p.Move(&g, 90, now.Add(10*time.Millisecond))
	if !p.Dragging() {
		t.Fatal("expected drag after passing slop")
	}
	p.Move(&g, 90, now.Add(15*time.Millisecond))
	p.Move(&g, 80, now.Add(20*time.Millisecond))
	p.Release(&g, now.Add(30*time.Millisecond))

	// -10 over 10ms is -1000/s, blended: -800, then -800-160.
	want := gestureLog{"begin", "drag -10", "drag -10", "end -960"}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("gestures mismatch (-want +got):\n%s", diff)
	}
}

func TestPointer_RestBeforeReleaseIsNotAFlick(t *testing.T) {
	var g gestureLog
	var p Pointer
	now := time.Unix(0, 0)

	p.Press(0, now)
	p.Move(&g, 50, now.Add(10*time.Millisecond))
	p.Release(&g, now.Add(500*time.Millisecond))

	want := gestureLog{"begin", "drag 50", "end 0"}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("gestures mismatch (-want +got):\n%s", diff)
	}
}

func TestPointer_IgnoresMovesWithoutPress(t *testing.T) {
	var g gestureLog
	var p Pointer
	p.Move(&g, 50, time.Now())
	p.Release(&g, time.Now())
	if len(g) != 0 {
		t.Errorf("expected no gestures, got %v", g)
	}
}

func TestTrackVelocity(t *testing.T) {
	if got := trackVelocity(0, 10, 10*time.Millisecond); got != 800 {
		t.Errorf("expected 800, got %v", got)
	}
	if got := trackVelocity(100, -10, 10*time.Millisecond); got != -780 {
		t.Errorf("expected -780, got %v", got)
	}
	if got := trackVelocity(42, 10, 0); got != 42 {
		t.Errorf("expected previous velocity without elapsed time, got %v", got)
	}
}
