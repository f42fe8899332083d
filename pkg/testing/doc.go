// Package testing provides a deterministic harness for carousel tests.
//
// # Quick Start
//
// Mount a carousel on fake collaborators, advance fake time, and assert on
// the state or on what the fakes received:
//
//	func TestAutoplay(t *testing.T) {
//	    h := carouseltest.NewHarness(t)
//	    h.Fetcher.Fail("http://x/y.gif", errors.New("offline"))
//	    c := h.Mount(carouseltest.Bounds, []any{"a.png", "http://x/y.gif"}, cfg, nil)
//
//	    h.Pump(cfg.TimeInterval + cfg.TransitionDuration)
//	    h.Settle()
//
//	    if got := c.Snapshot().CurrentIndex; got != 1 {
//	        t.Errorf("expected index 1, got %d", got)
//	    }
//	}
//
// # Time
//
// The harness owns a [FakeClock]. [Harness.Pump] advances it one frame at a
// time and steps the loop after each frame, so timers and transitions run
// exactly as they would at the harness frame rate.
//
// # Loads
//
// Remote loads still run on goroutines. [Harness.Settle] waits for them and
// drains their results on the test goroutine.
//
// # Snapshot Testing
//
// Capture and compare carousel snapshots:
//
//	h.CaptureSnapshot().MatchesFile(t, "testdata/drag.snapshot.json")
//
// Update snapshots with:
//
//	CAROUSEL_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import carouseltest "github.com/go-drift/carousel/pkg/testing"
package testing
