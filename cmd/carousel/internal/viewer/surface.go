// Package viewer holds the display-independent half of the carousel
// viewer: a [Surface] that records what the carousel asks its viewport and
// page indicator to show, and a [Scaler] that prepares page-sized images.
package viewer

import (
	"image"
	"time"

	"github.com/go-drift/carousel/pkg/carousel"
)

// Layer is one page to draw, in window coordinates.
type Layer struct {
	Buffer int
	Index  int
	Frame  image.Image
	X      float64
	Width  float64
	Height float64
	Alpha  float64
}

// Dot is one page indicator dot.
type Dot struct {
	X, Y, Radius float64
	Current      bool
}

// Surface implements carousel.Viewport and carousel.Indicator by keeping
// the latest state for the frame painter.
type Surface struct {
	contentWidth, contentHeight float64
	offset                      float64
	buffers                     [2]carousel.Buffer

	pages   int
	current int
	hidden  bool
	frame   carousel.Rect
}

// NewSurface returns an empty surface with both buffers unbound.
func NewSurface() *Surface {
	s := &Surface{}
	s.buffers[0].Index = -1
	s.buffers[1].Index = -1
	return s
}

func (s *Surface) SetContentSize(width, height float64) {
	s.contentWidth, s.contentHeight = width, height
}

func (s *Surface) SetContentOffset(x float64) { s.offset = x }

func (s *Surface) ContentOffset() float64 { return s.offset }

func (s *Surface) UpdateBuffer(id int, b carousel.Buffer) {
	if id < 0 || id >= len(s.buffers) {
		return
	}
	s.buffers[id] = b
}

func (s *Surface) SetPageCount(n int) { s.pages = n }

func (s *Surface) SetCurrentPage(i int) { s.current = i }

func (s *Surface) SetHidden(hidden bool) { s.hidden = hidden }

func (s *Surface) SetFrame(frame carousel.Rect) { s.frame = frame }

// ContentSize returns the scrollable content region.
func (s *Surface) ContentSize() (width, height float64) { return s.contentWidth, s.contentHeight }

// Buffer returns the last state pushed for buffer id.
func (s *Surface) Buffer(id int) carousel.Buffer { return s.buffers[id] }

// IndicatorFrame returns the indicator frame.
func (s *Surface) IndicatorFrame() carousel.Rect { return s.frame }

// CurrentPage returns the highlighted page and the page count.
func (s *Surface) CurrentPage() (page, pages int) { return s.current, s.pages }

// IndicatorHidden reports whether the indicator is hidden.
func (s *Surface) IndicatorHidden() bool { return s.hidden }

// Layers returns the pages visible through the viewport at elapsed time
// into playback. Buffers without an image, fully
// transparent or scrolled out of view are skipped.
func (s *Surface) Layers(viewWidth float64, elapsed time.Duration) []Layer {
	var layers []Layer
	for id, b := range s.buffers {
		if !b.Visible || b.Alpha <= 0 || b.Image == nil {
			continue
		}
		x := b.X - s.offset
		if x >= viewWidth || x+b.Width <= 0 {
			continue
		}
		layers = append(layers, Layer{
			Buffer: id,
			Index:  b.Index,
			Frame:  b.Image.FrameAt(elapsed),
			X:      x,
			Width:  b.Width,
			Height: s.contentHeight,
			Alpha:  b.Alpha,
		})
	}
	return layers
}

// Dots lays out one indicator dot per page, spaced evenly across the
// indicator frame.
func (s *Surface) Dots() []Dot {
	if s.hidden || s.pages <= 0 || s.frame.Width <= 0 {
		return nil
	}
	spacing := s.frame.Width / float64(s.pages)
	radius := min(spacing, s.frame.Height) / 5
	cy := s.frame.Y + s.frame.Height/2
	dots := make([]Dot, s.pages)
	for i := range dots {
		dots[i] = Dot{
			X:       s.frame.X + spacing*(float64(i)+0.5),
			Y:       cy,
			Radius:  radius,
			Current: i == s.current,
		}
	}
	return dots
}
