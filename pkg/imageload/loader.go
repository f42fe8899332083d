// Package imageload resolves carousel items into bitmaps.
//
// Already-decoded items and local assets resolve synchronously. Remote items
// are fetched and decoded off the UI goroutine on a bounded pool, and the
// result is handed back through an [engine.Dispatcher] so the caller sees it
// on the goroutine that owns the display. Concurrent loads of the same URL
// share one fetch.
//
// Every failure is reported to the global errors handler and returned to the
// caller as a *errors.CarouselError; nothing is retried.
package imageload

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/go-drift/carousel/pkg/engine"
	"github.com/go-drift/carousel/pkg/errors"
	"github.com/go-drift/carousel/pkg/imagesource"
)

// DefaultMaxConcurrent is the default number of simultaneous fetches.
const DefaultMaxConcurrent = 4

// Result is the outcome of a load.
type Result struct {
	Bitmap *imagesource.Bitmap
	// Err is a *errors.CarouselError when the load failed.
	Err error
}

// Options configures a Loader. Zero values select defaults.
type Options struct {
	// Fetcher retrieves remote bytes. Defaults to DefaultHTTPFetcher().
	Fetcher Fetcher
	// Decoder decodes fetched bytes. Defaults to FrameDecoder{}.
	Decoder Decoder
	// Assets resolves local asset names. Without it every asset fails.
	Assets Assets
	// Dispatcher receives completed remote loads. When nil, results are
	// delivered on the worker goroutine.
	Dispatcher engine.Dispatcher
	// MaxConcurrent bounds simultaneous fetch+decode work.
	MaxConcurrent int
}

// Loader resolves image sources.
type Loader struct {
	fetcher    Fetcher
	decoder    Decoder
	assets     Assets
	dispatcher engine.Dispatcher

	sem   *semaphore.Weighted
	group singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed atomic.Bool

	fetches atomic.Int64
}

// New creates a loader.
func New(opts Options) *Loader {
	if opts.Fetcher == nil {
		opts.Fetcher = DefaultHTTPFetcher()
	}
	if opts.Decoder == nil {
		opts.Decoder = FrameDecoder{}
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		fetcher:    opts.Fetcher,
		decoder:    opts.Decoder,
		assets:     opts.Assets,
		dispatcher: opts.Dispatcher,
		sem:        semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Load resolves src for the item at index.
//
// Bitmaps, assets and invalid sources complete immediately: Load returns
// the result with ok set and never calls deliver. Remote sources return
// ok=false and call deliver exactly once later, through the dispatcher,
// unless the loader is closed first.
func (l *Loader) Load(src imagesource.Source, index int, deliver func(Result)) (res Result, ok bool) {
	switch src.Kind {
	case imagesource.KindBitmap:
		return Result{Bitmap: src.Bitmap}, true
	case imagesource.KindAsset:
		return l.loadAsset(src.Name, index), true
	case imagesource.KindRemote:
		if l.closed.Load() {
			return Result{Err: l.report(errors.New("imageload.Fetch", errors.KindFetch, src.URL, context.Canceled), index)}, true
		}
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			l.deliver(l.loadRemote(src.URL, index), deliver)
		}()
		return Result{}, false
	default:
		err := errors.New("imageload.Resolve", errors.KindUnsupportedSource, "", fmt.Errorf("unsupported item type %s", src.Type))
		return Result{Err: l.report(err, index)}, true
	}
}

// Fetches returns the number of fetches issued so far.
func (l *Loader) Fetches() int64 { return l.fetches.Load() }

// Wait blocks until every in-flight remote load has finished and been
// handed to the dispatcher.
func (l *Loader) Wait() { l.wg.Wait() }

// Close cancels in-flight fetches and drops their results.
func (l *Loader) Close() {
	if l.closed.Swap(true) {
		return
	}
	l.cancel()
}

func (l *Loader) loadAsset(name string, index int) Result {
	if l.assets == nil {
		err := errors.New("imageload.Asset", errors.KindAsset, name, ErrAssetNotFound)
		return Result{Err: l.report(err, index)}
	}
	bmp, err := l.assets.Asset(name)
	if err != nil {
		return Result{Err: l.report(errors.New("imageload.Asset", errors.KindAsset, name, err), index)}
	}
	return Result{Bitmap: bmp}
}

func (l *Loader) loadRemote(url string, index int) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			errors.ReportPanic(&errors.PanicError{
				Op:         "imageload.Load",
				Value:      r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			})
			res = Result{Err: &errors.CarouselError{
				Op:     "imageload.Load",
				Kind:   errors.KindPanic,
				Source: url,
				Index:  index,
				Err:    fmt.Errorf("panic: %v", r),
			}}
		}
	}()

	v, err, _ := l.group.Do(url, func() (any, error) {
		return l.fetchDecode(url)
	})
	if err != nil {
		return Result{Err: l.report(err, index)}
	}
	return Result{Bitmap: v.(*imagesource.Bitmap)}
}

func (l *Loader) fetchDecode(url string) (*imagesource.Bitmap, error) {
	if err := l.sem.Acquire(l.ctx, 1); err != nil {
		return nil, errors.New("imageload.Fetch", errors.KindFetch, url, err)
	}
	defer l.sem.Release(1)

	l.fetches.Add(1)
	data, err := l.fetcher.Fetch(l.ctx, url)
	if err != nil {
		return nil, errors.New("imageload.Fetch", errors.KindFetch, url, err)
	}
	bmp, err := l.decoder.Decode(data)
	if err == nil && bmp == nil {
		err = ErrNoFrames
	}
	if err != nil {
		return nil, errors.New("imageload.Decode", errors.KindDecode, url, err)
	}
	return bmp, nil
}

// report sends err to the global handler tagged with index and returns the
// tagged copy. Errors shared between joined loads are copied so each caller
// sees its own index.
func (l *Loader) report(err error, index int) error {
	ce, ok := err.(*errors.CarouselError)
	if !ok {
		ce = errors.New("imageload.Load", errors.KindUnknown, "", err)
	}
	tagged := *ce
	tagged.Index = index
	errors.Report(&tagged)
	return &tagged
}

func (l *Loader) deliver(res Result, fn func(Result)) {
	if fn == nil || l.closed.Load() {
		return
	}
	if l.dispatcher == nil {
		fn(res)
		return
	}
	l.dispatcher.Dispatch(func() {
		if l.closed.Load() {
			return
		}
		fn(res)
	})
}
