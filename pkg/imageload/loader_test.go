package imageload

import (
	"context"
	stderrors "errors"
	"image"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-drift/carousel/pkg/engine"
	"github.com/go-drift/carousel/pkg/errors"
	"github.com/go-drift/carousel/pkg/imagesource"
)

type recordingHandler struct {
	mu     sync.Mutex
	errors []*errors.CarouselError
}

func (h *recordingHandler) HandleError(err *errors.CarouselError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, err)
}

func (h *recordingHandler) HandlePanic(*errors.PanicError) {}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.errors)
}

func installRecorder(t *testing.T) *recordingHandler {
	t.Helper()
	h := &recordingHandler{}
	old := errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(old) })
	return h
}

// runLoad issues a remote load and returns its delivered result after
// draining the loop.
func runLoad(t *testing.T, l *Loader, loop *engine.Loop, url string) Result {
	t.Helper()
	var got *Result
	_, ok := l.Load(imagesource.Resolve(url), 1, func(r Result) { got = &r })
	if ok {
		t.Fatal("remote load completed synchronously")
	}
	l.Wait()
	loop.StepFrame()
	if got == nil {
		t.Fatal("result was not delivered through the loop")
	}
	return *got
}

func TestLoader_SyncSources(t *testing.T) {
	rec := installRecorder(t)
	assets, _ := NewFSAssets(fstest.MapFS{"a.png": {Data: encodePNG(t, 2, 2)}}, nil, 0)
	l := New(Options{Assets: assets, Fetcher: FetchFunc(func(context.Context, string) ([]byte, error) {
		t.Fatal("sync sources must not fetch")
		return nil, nil
	})})

	bmp := imagesource.Static(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	res, ok := l.Load(imagesource.Resolve(bmp), 0, nil)
	if !ok || res.Bitmap != bmp {
		t.Errorf("bitmap load = %+v, %v", res, ok)
	}

	res, ok = l.Load(imagesource.Resolve("a.png"), 0, nil)
	if !ok || res.Err != nil || res.Bitmap == nil {
		t.Errorf("asset load = %+v, %v", res, ok)
	}

	res, ok = l.Load(imagesource.Resolve("missing.png"), 2, nil)
	if !ok || errors.KindOf(res.Err) != errors.KindAsset {
		t.Errorf("missing asset = %+v, %v", res, ok)
	}

	res, ok = l.Load(imagesource.Resolve(7), 3, nil)
	if !ok || errors.KindOf(res.Err) != errors.KindUnsupportedSource {
		t.Errorf("invalid load = %+v, %v", res, ok)
	}
	if rec.count() != 2 {
		t.Errorf("expected 2 reported errors, got %d", rec.count())
	}
}

func TestLoader_AssetWithoutStore(t *testing.T) {
	installRecorder(t)
	l := New(Options{})
	res, ok := l.Load(imagesource.Resolve("logo"), 0, nil)
	if !ok || errors.KindOf(res.Err) != errors.KindAsset {
		t.Errorf("expected asset error, got %+v", res)
	}
}

func TestLoader_RemoteSuccess(t *testing.T) {
	data := encodeGIF(t, []int{20, 30, 0})
	loop := engine.NewLoop(nil)
	l := New(Options{
		Dispatcher: loop,
		Fetcher: FetchFunc(func(context.Context, string) ([]byte, error) {
			return data, nil
		}),
	})

	res := runLoad(t, l, loop, "http://x/y.gif")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if !res.Bitmap.IsAnimated() || res.Bitmap.Duration != 500*time.Millisecond {
		t.Errorf("unexpected bitmap %+v", res.Bitmap)
	}
	if l.Fetches() != 1 {
		t.Errorf("Fetches = %d, want 1", l.Fetches())
	}
}

func TestLoader_FetchAndDecodeFailures(t *testing.T) {
	rec := installRecorder(t)
	loop := engine.NewLoop(nil)
	l := New(Options{
		Dispatcher: loop,
		Fetcher: FetchFunc(func(_ context.Context, url string) ([]byte, error) {
			if strings.HasSuffix(url, "down") {
				return nil, stderrors.New("connection refused")
			}
			return []byte("garbage"), nil
		}),
	})

	res := runLoad(t, l, loop, "http://x/down")
	if errors.KindOf(res.Err) != errors.KindFetch || res.Bitmap != nil {
		t.Errorf("expected fetch error, got %+v", res)
	}
	var ce *errors.CarouselError
	if !stderrors.As(res.Err, &ce) || ce.Index != 1 {
		t.Errorf("expected error tagged with index 1, got %v", res.Err)
	}

	res = runLoad(t, l, loop, "http://x/garbage")
	if errors.KindOf(res.Err) != errors.KindDecode {
		t.Errorf("expected decode error, got %+v", res)
	}
	if rec.count() != 2 {
		t.Errorf("expected 2 reported errors, got %d", rec.count())
	}
}

func TestLoader_JoinsInFlightFetches(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 4)
	var calls atomic.Int32
	data := encodePNG(t, 1, 1)
	loop := engine.NewLoop(nil)
	l := New(Options{
		Dispatcher: loop,
		Fetcher: FetchFunc(func(context.Context, string) ([]byte, error) {
			calls.Add(1)
			started <- struct{}{}
			<-release
			return data, nil
		}),
	})

	delivered := 0
	l.Load(imagesource.Resolve("http://x/a.png"), 1, func(Result) { delivered++ })
	<-started
	l.Load(imagesource.Resolve("http://x/a.png"), 1, func(Result) { delivered++ })
	// Give the second load time to join the first.
	time.Sleep(50 * time.Millisecond)
	close(release)
	l.Wait()
	loop.StepFrame()

	if calls.Load() != 1 {
		t.Errorf("expected one fetch for joined loads, got %d", calls.Load())
	}
	if delivered != 2 {
		t.Errorf("expected both callers to be delivered, got %d", delivered)
	}
}

func TestLoader_BoundsConcurrency(t *testing.T) {
	release := make(chan struct{})
	var active, peak atomic.Int32
	data := encodePNG(t, 1, 1)
	l := New(Options{
		MaxConcurrent: 2,
		Fetcher: FetchFunc(func(context.Context, string) ([]byte, error) {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			<-release
			active.Add(-1)
			return data, nil
		}),
	})

	var wg sync.WaitGroup
	for _, u := range []string{"http://x/1", "http://x/2", "http://x/3", "http://x/4", "http://x/5"} {
		wg.Add(1)
		l.Load(imagesource.Resolve(u), 0, func(Result) { wg.Done() })
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if peak.Load() > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak.Load())
	}
}

func TestLoader_CloseDropsResults(t *testing.T) {
	installRecorder(t)
	release := make(chan struct{})
	loop := engine.NewLoop(nil)
	l := New(Options{
		Dispatcher: loop,
		Fetcher: FetchFunc(func(ctx context.Context, _ string) ([]byte, error) {
			select {
			case <-release:
				return nil, stderrors.New("unreachable")
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}),
	})

	delivered := false
	l.Load(imagesource.Resolve("http://x/slow"), 0, func(Result) { delivered = true })
	l.Close()
	l.Wait()
	loop.StepFrame()
	if delivered {
		t.Error("result delivered after Close")
	}

	res, ok := l.Load(imagesource.Resolve("http://x/late"), 0, nil)
	if !ok || errors.KindOf(res.Err) != errors.KindFetch {
		t.Errorf("load after Close = %+v, %v", res, ok)
	}
	close(release)
}
