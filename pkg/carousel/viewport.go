package carousel

import "github.com/go-drift/carousel/pkg/imagesource"

// Buffer is a display buffer as seen by the viewport.
type Buffer struct {
	// Index is the bound item index, or -1 when unbound.
	Index int
	// Image is the bitmap shown by the buffer. It may be nil.
	Image *imagesource.Bitmap
	// X is the buffer's left edge within the content region.
	X float64
	// Width is the page width.
	Width float64
	// Alpha is the buffer opacity in [0, 1].
	Alpha float64
	// Visible reports whether the buffer is drawn.
	Visible bool
}

// Viewport is the scrollable surface that displays the two buffers.
type Viewport interface {
	// SetContentSize sets the scrollable content region.
	SetContentSize(width, height float64)
	// SetContentOffset scrolls the content so x is at the left edge.
	SetContentOffset(x float64)
	// ContentOffset returns the current horizontal scroll offset.
	ContentOffset() float64
	// UpdateBuffer replaces the state of buffer id (0 or 1).
	UpdateBuffer(id int, b Buffer)
}

// Indicator is the page indicator.
type Indicator interface {
	SetPageCount(n int)
	SetCurrentPage(i int)
	SetHidden(hidden bool)
	SetFrame(frame Rect)
}

type nopViewport struct{ offset float64 }

func (v *nopViewport) SetContentSize(float64, float64) {}
func (v *nopViewport) SetContentOffset(x float64)      { v.offset = x }
func (v *nopViewport) ContentOffset() float64          { return v.offset }
func (v *nopViewport) UpdateBuffer(int, Buffer)        {}

type nopIndicator struct{}

func (nopIndicator) SetPageCount(int)   {}
func (nopIndicator) SetCurrentPage(int) {}
func (nopIndicator) SetHidden(bool)     {}
func (nopIndicator) SetFrame(Rect)      {}
