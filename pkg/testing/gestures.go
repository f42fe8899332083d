package testing

import "time"

// dragSteps is the number of moves a simulated drag is split into.
const dragSteps = 4

// Drag simulates a drag of dx points released at rest, one frame per move.
// A negative dx moves the finger left, toward the next item.
func (h *Harness) Drag(dx float64) {
	h.Fling(dx, 0)
}

// Fling simulates a drag of dx points released with the given velocity in
// points per second.
func (h *Harness) Fling(dx, velocity float64) {
	h.DragStart()
	h.DragMove(dx)
	h.DragEnd(velocity)
}

// DragStart begins a drag gesture.
func (h *Harness) DragStart() {
	h.Carousel.BeginDrag()
}

// DragMove moves an active drag by dx split over several frames.
func (h *Harness) DragMove(dx float64) {
	step := dx / dragSteps
	for i := 0; i < dragSteps; i++ {
		h.Carousel.DragBy(step)
		h.Frame()
	}
}

// DragEnd releases an active drag.
func (h *Harness) DragEnd(velocity float64) {
	h.Carousel.EndDrag(velocity)
}

// DragAndSettle drags by dx, releases, and pumps until the settle animation
// has finished.
func (h *Harness) DragAndSettle(dx float64) {
	h.t.Helper()
	h.Drag(dx)
	if err := h.PumpUntilIdle(time.Second * 5); err != nil {
		h.t.Fatal(err)
	}
}

// Tap simulates a tap on the visible image.
func (h *Harness) Tap() {
	h.Carousel.Tap()
}
