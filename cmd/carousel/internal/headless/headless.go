// Package headless drives a carousel without a window, on a real-time
// engine loop, reporting each committed page.
package headless

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/engine"
)

// Options configures Run.
type Options struct {
	Bounds carousel.Rect
	Items  []string
	Config carousel.Config
	Loader carousel.Loader
	// Loop must be the loop the loader dispatches to.
	Loop *engine.Loop
	// Ticks stops the run after this many commits. Zero runs until the
	// context is done.
	Ticks int
	// Out receives one line per page shown.
	Out io.Writer
	Log *slog.Logger
	// Mounted, when set, receives the carousel before autoplay starts.
	Mounted func(c *carousel.Carousel)
}

// Run shows the first page, then autoplays until ctx is done or
// opts.Ticks commits have happened. It returns the number of commits.
// With one item and Ticks set it returns after the first page.
func Run(ctx context.Context, opts Options) (int, error) {
	if len(opts.Items) == 0 {
		return 0, fmt.Errorf("no items to show")
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	items := make([]any, len(opts.Items))
	for i, item := range opts.Items {
		items[i] = item
	}

	commits := 0
	c := carousel.New(opts.Bounds, items, nil, opts.Config, carousel.Deps{
		Loader:    opts.Loader,
		Scheduler: opts.Loop.Scheduler(),
		Viewport:  &LogViewport{Log: opts.Log},
		OnCommit: func(s carousel.State) {
			commits++
			fmt.Fprintf(opts.Out, "%d\t%s\t%s\n", s.CurrentIndex, s.Direction, opts.Items[s.CurrentIndex])
			if opts.Ticks > 0 && commits >= opts.Ticks {
				cancel()
			}
		},
	})
	defer c.Dispose()
	if opts.Mounted != nil {
		opts.Mounted(c)
	}

	fmt.Fprintf(opts.Out, "%d\tstart\t%s\n", c.Snapshot().CurrentIndex, opts.Items[0])
	if opts.Ticks > 0 && c.Len() <= 1 {
		// A single item never autoplays, so no commit would end the run.
		return 0, nil
	}
	// The loop only stops when ctx is done, by interrupt or after Ticks.
	_ = opts.Loop.Run(ctx, 0)
	return commits, nil
}

// LogViewport is a carousel.Viewport that logs buffer updates at debug
// level.
type LogViewport struct {
	Log    *slog.Logger
	offset float64
}

func (v *LogViewport) SetContentSize(width, height float64) {
	v.Log.Debug("content size", "width", width, "height", height)
}

func (v *LogViewport) SetContentOffset(x float64) { v.offset = x }

func (v *LogViewport) ContentOffset() float64 { return v.offset }

func (v *LogViewport) UpdateBuffer(id int, b carousel.Buffer) {
	v.Log.Debug("buffer",
		slog.Int("id", id),
		slog.Int("index", b.Index),
		slog.Bool("image", b.Image != nil),
		slog.Float64("x", b.X),
		slog.Float64("alpha", b.Alpha),
		slog.Bool("visible", b.Visible),
	)
}
