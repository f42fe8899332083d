// Package carousel implements an image carousel: an ordered, fixed-length
// set of items shown one page at a time, advanced by an autoplay timer or
// by horizontal drags.
//
// A Carousel owns its state machine and two display buffers. The visible
// buffer is centered in a content region three pages wide; the pending
// buffer is placed to its right or left before a transition reveals it.
// At each commit the buffers swap roles and the content offset returns to
// the middle page, so any number of items cycles through two buffers.
//
//	Idle ──Tick──────────► Transitioning ──settle──► Committed ──► Idle
//	  │                         ▲    │
//	  └─BeginDrag─► Dragging ───┘    └─ net-zero offset ─────────► Idle
//	                (DragBy)  EndDrag
//
// All methods must be called on the goroutine that steps the scheduler
// passed in [Deps], normally the one running an engine.Loop. Remote images
// are loaded off that goroutine and handed back through the loader's
// dispatcher.
package carousel
