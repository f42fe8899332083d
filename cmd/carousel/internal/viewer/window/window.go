// Package window hosts a carousel in an Ebitengine window.
//
// The ebiten game loop is the carousel's UI goroutine: every Update steps
// the engine loop once, and mouse input is translated into drag and tap
// calls on the mounted carousel.
package window

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/go-drift/carousel/cmd/carousel/internal/viewer"
	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/engine"
)

// textureCacheSize bounds the uploaded textures kept on the GPU.
const textureCacheSize = 128

var (
	background   = color.RGBA{0x10, 0x10, 0x10, 0xff}
	dotColor     = color.RGBA{0xff, 0xff, 0xff, 0x66}
	currentColor = color.RGBA{0xff, 0xff, 0xff, 0xee}
)

// MountFunc builds a carousel drawing into surface for the given bounds.
type MountFunc func(bounds carousel.Rect, surface *viewer.Surface) (*carousel.Carousel, error)

// Options configures a Window.
type Options struct {
	Title  string
	Width  int
	Height int
	Loop   *engine.Loop
	Mount  MountFunc
}

// Window is an ebiten.Game showing one carousel.
type Window struct {
	opts     Options
	loop     *engine.Loop
	surface  *viewer.Surface
	scaler   *viewer.Scaler
	textures *lru.Cache[*image.RGBA, *ebiten.Image]
	carousel *carousel.Carousel

	start   time.Time
	width   int
	height  int
	err     error
	pointer viewer.Pointer
	paused  bool
}

// New creates a window. The carousel is mounted on the first Update, once
// the window size is known.
func New(opts Options) (*Window, error) {
	if opts.Loop == nil {
		opts.Loop = engine.NewLoop(nil)
	}
	w := &Window{opts: opts, loop: opts.Loop, surface: viewer.NewSurface(), start: time.Now()}
	textures, err := lru.NewWithEvict[*image.RGBA, *ebiten.Image](textureCacheSize, func(_ *image.RGBA, img *ebiten.Image) {
		img.Deallocate()
	})
	if err != nil {
		return nil, err
	}
	w.textures = textures
	scaler, err := viewer.NewScaler(nil, textureCacheSize, func(img *image.RGBA) {
		w.textures.Remove(img)
	})
	if err != nil {
		return nil, err
	}
	w.scaler = scaler
	return w, nil
}

// Run opens the window and blocks until it is closed. It must be called
// from the main goroutine.
func (w *Window) Run() error {
	ebiten.SetWindowSize(w.opts.Width, w.opts.Height)
	ebiten.SetWindowTitle(w.opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(w)
	if w.carousel != nil {
		w.carousel.Dispose()
	}
	return err
}

// Remount replaces the carousel, for example after a configuration reload.
// It must run on the UI goroutine, typically through the loop's Dispatch.
func (w *Window) Remount(mount MountFunc) {
	w.opts.Mount = mount
	if w.carousel != nil {
		w.carousel.Dispose()
		w.carousel = nil
	}
	w.surface = viewer.NewSurface()
	w.scaler.Purge()
	w.mount()
}

// Carousel returns the mounted carousel, or nil before the first frame. It
// must be called on the UI goroutine.
func (w *Window) Carousel() *carousel.Carousel { return w.carousel }

func (w *Window) mount() {
	if w.opts.Mount == nil || w.width == 0 || w.height == 0 {
		return
	}
	c, err := w.opts.Mount(w.bounds(), w.surface)
	if err != nil {
		w.err = err
		return
	}
	w.carousel = c
	w.start = time.Now()
	if w.paused {
		c.Pause()
	}
}

func (w *Window) bounds() carousel.Rect {
	return carousel.Rect{Width: float64(w.width), Height: float64(w.height)}
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if w.err != nil {
		return w.err
	}
	if w.carousel == nil {
		w.mount()
	} else if b := w.bounds(); b != w.carousel.Bounds() {
		w.scaler.Purge()
		w.carousel.SetBounds(b)
	}
	if w.carousel != nil {
		w.handleKeys()
		w.handlePointer()
	}
	w.loop.StepFrame()
	return w.err
}

func (w *Window) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		w.paused = !w.paused
		if w.paused {
			w.carousel.Pause()
		} else {
			w.carousel.Resume()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		w.err = ebiten.Termination
	}
}

func (w *Window) handlePointer() {
	x, _ := ebiten.CursorPosition()
	now := time.Now()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		w.pointer.Press(float64(x), now)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		w.pointer.Move(w.carousel, float64(x), now)
		w.pointer.Release(w.carousel, now)
	default:
		w.pointer.Move(w.carousel, float64(x), now)
	}
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	if w.carousel == nil {
		return
	}
	elapsed := time.Since(w.start)
	for _, layer := range w.surface.Layers(float64(w.width), elapsed) {
		frame := w.scaler.Fill(layer.Frame, int(math.Round(layer.Width)), int(math.Round(layer.Height)))
		if frame == nil {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(layer.X, 0)
		op.ColorScale.ScaleAlpha(float32(layer.Alpha))
		screen.DrawImage(w.texture(frame), op)
	}
	for _, dot := range w.surface.Dots() {
		c := dotColor
		if dot.Current {
			c = currentColor
		}
		vector.DrawFilledCircle(screen, float32(dot.X), float32(dot.Y), float32(dot.Radius), c, true)
	}
}

func (w *Window) texture(frame *image.RGBA) *ebiten.Image {
	if tex, ok := w.textures.Get(frame); ok {
		return tex
	}
	tex := ebiten.NewImageFromImage(frame)
	w.textures.Add(frame, tex)
	return tex
}

// Layout implements ebiten.Game.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	w.width, w.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
