package viewer

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/imagesource"
)

func solid(w, h int, c color.Color) *imagesource.Bitmap {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		r, g, b, a := c.RGBA()
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8)
	}
	return imagesource.Static(img)
}

func TestSurface_Layers(t *testing.T) {
	s := NewSurface()
	s.SetContentSize(300, 50)
	s.SetContentOffset(100)

	red := solid(2, 2, color.RGBA{R: 255, A: 255})
	blue := solid(2, 2, color.RGBA{B: 255, A: 255})
	s.UpdateBuffer(0, carousel.Buffer{Index: 0, Image: red, X: 100, Width: 100, Alpha: 1, Visible: true})
	s.UpdateBuffer(1, carousel.Buffer{Index: 1, Image: blue, X: 200, Width: 100, Alpha: 1, Visible: true})

	if got := s.Layers(100, 0); len(got) != 1 || got[0].Index != 0 || got[0].X != 0 {
		t.Fatalf("expected only buffer 0 at rest, got %+v", got)
	}

	// Half way through a forward slide both pages are on screen.
	s.SetContentOffset(150)
	got := s.Layers(100, 0)
	want := []Layer{
		{Buffer: 0, Index: 0, Frame: red.Frames[0], X: -50, Width: 100, Height: 50, Alpha: 1},
		{Buffer: 1, Index: 1, Frame: blue.Frames[0], X: 50, Width: 100, Height: 50, Alpha: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("layers mismatch (-want +got):\n%s", diff)
	}
}

func TestSurface_LayersSkipEmptyAndHidden(t *testing.T) {
	s := NewSurface()
	s.SetContentSize(100, 50)
	s.UpdateBuffer(0, carousel.Buffer{Index: 0, X: 0, Width: 100, Alpha: 1, Visible: true})
	s.UpdateBuffer(1, carousel.Buffer{Index: 1, Image: solid(1, 1, color.White), X: 0, Width: 100, Alpha: 0, Visible: true})
	if got := s.Layers(100, 0); len(got) != 0 {
		t.Errorf("expected no layers, got %+v", got)
	}
	if s.Buffer(0).Index != 0 || s.Buffer(1).Index != 1 {
		t.Errorf("expected buffers to be recorded")
	}
	s.UpdateBuffer(2, carousel.Buffer{Index: 9})
	if s.Buffer(0).Index != 0 {
		t.Errorf("expected out of range buffer id to be ignored")
	}
}

func TestSurface_LayersPlayAnimation(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 1, 1))
	b := image.NewRGBA(image.Rect(0, 0, 1, 1))
	anim := imagesource.Animated([]image.Image{a, b}, []time.Duration{100 * time.Millisecond, 100 * time.Millisecond})

	s := NewSurface()
	s.SetContentSize(100, 100)
	s.UpdateBuffer(0, carousel.Buffer{Index: 0, Image: anim, Width: 100, Alpha: 1, Visible: true})
	if got := s.Layers(100, 150*time.Millisecond); len(got) != 1 || got[0].Frame != image.Image(b) {
		t.Errorf("expected second frame at 150ms, got %+v", got)
	}
	if got := s.Layers(100, 250*time.Millisecond); len(got) != 1 || got[0].Frame != image.Image(a) {
		t.Errorf("expected first frame after looping, got %+v", got)
	}
}

func TestSurface_Dots(t *testing.T) {
	s := NewSurface()
	s.SetPageCount(3)
	s.SetCurrentPage(1)
	s.SetFrame(carousel.Rect{X: 240, Y: 175, Width: 60, Height: 25})

	want := []Dot{
		{X: 250, Y: 187.5, Radius: 4},
		{X: 270, Y: 187.5, Radius: 4, Current: true},
		{X: 290, Y: 187.5, Radius: 4},
	}
	if diff := cmp.Diff(want, s.Dots()); diff != "" {
		t.Errorf("dots mismatch (-want +got):\n%s", diff)
	}
	if page, pages := s.CurrentPage(); page != 1 || pages != 3 {
		t.Errorf("expected page 1 of 3, got %d of %d", page, pages)
	}

	s.SetHidden(true)
	if got := s.Dots(); got != nil {
		t.Errorf("expected no dots when hidden, got %+v", got)
	}
}
