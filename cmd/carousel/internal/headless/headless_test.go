package headless

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/engine"
	"github.com/go-drift/carousel/pkg/imageload"
	carouseltest "github.com/go-drift/carousel/pkg/testing"
)

func TestRun_StopsAfterTicks(t *testing.T) {
	png := carouseltest.PNG(t, 4, 4)
	assets, err := imageload.NewFSAssets(fstest.MapFS{
		"a.png": {Data: png},
		"b.png": {Data: png},
		"c.png": {Data: png},
	}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	loop := engine.NewLoop(nil)
	loader := imageload.New(imageload.Options{Assets: assets, Dispatcher: loop})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out bytes.Buffer
	commits, err := Run(ctx, Options{
		Bounds: carousel.Rect{Width: 100, Height: 50},
		Items:  []string{"a.png", "b.png", "c.png"},
		Config: carousel.Config{
			AutoCache:          true,
			TimeInterval:       20 * time.Millisecond,
			TransitionDuration: 20 * time.Millisecond,
		},
		Loader: loader,
		Loop:   loop,
		Ticks:  4,
		Out:    &out,
		Log:    slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Err() != nil {
		t.Fatal("timed out before reaching the tick count")
	}
	if commits != 4 {
		t.Errorf("expected 4 commits, got %d", commits)
	}

	want := []string{
		"0\tstart\ta.png",
		"1\tforward\tb.png",
		"2\tforward\tc.png",
		"0\tforward\ta.png",
		"1\tforward\tb.png",
	}
	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_SingleItemReturnsAfterStart(t *testing.T) {
	assets, err := imageload.NewFSAssets(fstest.MapFS{
		"a.png": {Data: carouseltest.PNG(t, 4, 4)},
	}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	loop := engine.NewLoop(nil)
	loader := imageload.New(imageload.Options{Assets: assets, Dispatcher: loop})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	commits, err := Run(ctx, Options{
		Bounds: carousel.Rect{Width: 100, Height: 50},
		Items:  []string{"a.png"},
		Config: carousel.Config{TimeInterval: 20 * time.Millisecond},
		Loader: loader,
		Loop:   loop,
		Ticks:  3,
		Out:    &out,
		Log:    slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Err() != nil {
		t.Fatal("expected a single item run to return without waiting for commits")
	}
	if commits != 0 {
		t.Errorf("expected 0 commits, got %d", commits)
	}
	if got := strings.TrimSpace(out.String()); got != "0\tstart\ta.png" {
		t.Errorf("expected only the start line, got %q", got)
	}
}

func TestRun_NoItems(t *testing.T) {
	if _, err := Run(context.Background(), Options{}); err == nil {
		t.Error("expected error for an empty carousel")
	}
}

func TestLogViewport_TracksOffset(t *testing.T) {
	var buf bytes.Buffer
	v := &LogViewport{Log: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	v.SetContentOffset(42)
	if v.ContentOffset() != 42 {
		t.Errorf("expected offset 42, got %v", v.ContentOffset())
	}
	v.UpdateBuffer(1, carousel.Buffer{Index: 3, Alpha: 1, Visible: true})
	if !strings.Contains(buf.String(), "index=3") {
		t.Errorf("expected buffer update to be logged, got %q", buf.String())
	}
}
