package testing

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-drift/carousel/pkg/carousel"
)

// FakeViewport records what a carousel pushes to its viewport.
type FakeViewport struct {
	mu            sync.Mutex
	contentWidth  float64
	contentHeight float64
	offset        float64
	buffers       [2]carousel.Buffer
	updates       int
}

var _ carousel.Viewport = (*FakeViewport)(nil)

// NewFakeViewport returns a viewport with both buffers unbound.
func NewFakeViewport() *FakeViewport {
	return &FakeViewport{buffers: [2]carousel.Buffer{{Index: -1}, {Index: -1}}}
}

// SetContentSize implements carousel.Viewport.
func (v *FakeViewport) SetContentSize(width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.contentWidth, v.contentHeight = width, height
}

// SetContentOffset implements carousel.Viewport.
func (v *FakeViewport) SetContentOffset(x float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = x
}

// ContentOffset implements carousel.Viewport.
func (v *FakeViewport) ContentOffset() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.offset
}

// UpdateBuffer implements carousel.Viewport.
func (v *FakeViewport) UpdateBuffer(id int, b carousel.Buffer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.buffers[id] = b
	v.updates++
}

// ContentSize returns the last content size.
func (v *FakeViewport) ContentSize() (width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.contentWidth, v.contentHeight
}

// Buffer returns the last state pushed for buffer id.
func (v *FakeViewport) Buffer(id int) carousel.Buffer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.buffers[id]
}

// Shown returns the buffer on screen at rest: the visible buffer whose left
// edge is at the content offset. ok is false when none is.
func (v *FakeViewport) Shown() (id int, b carousel.Buffer, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for id, b := range v.buffers {
		if b.Visible && b.Alpha > 0 && b.X == v.offset {
			return id, b, true
		}
	}
	return -1, carousel.Buffer{}, false
}

// Updates returns the number of buffer updates received.
func (v *FakeViewport) Updates() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.updates
}

// FakeIndicator records page indicator updates.
type FakeIndicator struct {
	mu      sync.Mutex
	pages   int
	current int
	hidden  bool
	frame   carousel.Rect
	history []int
}

var _ carousel.Indicator = (*FakeIndicator)(nil)

// SetPageCount implements carousel.Indicator.
func (i *FakeIndicator) SetPageCount(n int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.pages = n
}

// SetCurrentPage implements carousel.Indicator.
func (i *FakeIndicator) SetCurrentPage(page int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.current = page
	i.history = append(i.history, page)
}

// SetHidden implements carousel.Indicator.
func (i *FakeIndicator) SetHidden(hidden bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.hidden = hidden
}

// SetFrame implements carousel.Indicator.
func (i *FakeIndicator) SetFrame(frame carousel.Rect) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.frame = frame
}

// Pages returns the page count.
func (i *FakeIndicator) Pages() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.pages
}

// Current returns the current page.
func (i *FakeIndicator) Current() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.current
}

// Hidden reports whether the indicator is hidden.
func (i *FakeIndicator) Hidden() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.hidden
}

// Frame returns the indicator frame.
func (i *FakeIndicator) Frame() carousel.Rect {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.frame
}

// History returns every page set, in order.
func (i *FakeIndicator) History() []int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]int(nil), i.history...)
}

type fakeResponse struct {
	data []byte
	err  error
}

// FakeFetcher serves canned responses and counts fetches per URL. Unknown
// URLs fail with a not-found error.
type FakeFetcher struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     map[string]int
	gate      chan struct{}
}

// NewFakeFetcher returns an empty fetcher.
func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{
		responses: make(map[string]fakeResponse),
		calls:     make(map[string]int),
	}
}

// Serve makes url return data.
func (f *FakeFetcher) Serve(url string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[url] = fakeResponse{data: data}
}

// Fail makes url return err.
func (f *FakeFetcher) Fail(url string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[url] = fakeResponse{err: err}
}

// Hold blocks fetches started from now on until Release.
func (f *FakeFetcher) Hold() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate == nil {
		f.gate = make(chan struct{})
	}
}

// Release unblocks held fetches.
func (f *FakeFetcher) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
}

// Fetch implements imageload.Fetcher.
func (f *FakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls[url]++
	resp, ok := f.responses[url]
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !ok {
		return nil, fmt.Errorf("fetch %s: 404 Not Found", url)
	}
	return resp.data, resp.err
}

// Calls returns the number of fetches issued for url.
func (f *FakeFetcher) Calls(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

// Total returns the number of fetches issued.
func (f *FakeFetcher) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}
