package imageload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	_ "image/jpeg" // register still formats for image.Decode
	_ "image/png"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/go-drift/carousel/pkg/imagesource"
)

// ErrNoFrames is returned for an animation without any frames.
var ErrNoFrames = errors.New("imageload: no frames")

// Decoder turns fetched bytes into a displayable bitmap.
type Decoder interface {
	Decode(data []byte) (*imagesource.Bitmap, error)
}

// FrameInfo describes one frame of decoded content.
type FrameInfo struct {
	Delay time.Duration
}

// FrameDecoder decodes still images and multi-frame GIFs.
//
// A GIF with more than one frame is composited frame by frame, honouring
// disposal, into an animated bitmap whose loop is the sum of frame delays.
// Everything else, including a single-frame GIF, decodes to a static
// bitmap. PNG, JPEG, GIF, WebP, BMP and TIFF are recognised.
type FrameDecoder struct {
	// DefaultDelay is the per-frame delay used when every frame delay is
	// zero. Zero means imagesource.DefaultFrameDelay.
	DefaultDelay time.Duration
	// MaxPixels rejects images larger than this many pixels. Zero disables
	// the check.
	MaxPixels int
}

// Decode implements Decoder.
func (d FrameDecoder) Decode(data []byte) (*imagesource.Bitmap, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if exceedsPixels(cfg.Width, cfg.Height, d.MaxPixels) {
		return nil, fmt.Errorf("%w: pixels=%d limit=%d", ErrTooLarge, cfg.Width*cfg.Height, d.MaxPixels)
	}

	if format == "gif" {
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err == nil && len(g.Image) > 1 {
			return d.decodeAnimated(g)
		}
		// A broken animation still shows its first frame.
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return imagesource.Static(img), nil
}

// Inspect reports the format and per-frame timing of data without
// compositing frames.
func (d FrameDecoder) Inspect(data []byte) (format string, size image.Point, frames []FrameInfo, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", image.Point{}, nil, err
	}
	size = image.Pt(cfg.Width, cfg.Height)
	if format != "gif" {
		return format, size, []FrameInfo{{}}, nil
	}
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return format, size, nil, err
	}
	for _, delay := range d.frameDelays(g) {
		frames = append(frames, FrameInfo{Delay: delay})
	}
	return format, size, frames, nil
}

func (d FrameDecoder) decodeAnimated(g *gif.GIF) (*imagesource.Bitmap, error) {
	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}
	width, height := g.Config.Width, g.Config.Height
	if width <= 0 || height <= 0 {
		b := g.Image[0].Bounds()
		width, height = b.Max.X, b.Max.Y
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	prev := image.NewRGBA(canvas.Bounds())
	bg := backgroundColor(g)

	frames := make([]image.Image, 0, len(g.Image))
	for i, frame := range g.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			copy(prev.Pix, canvas.Pix)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		snapshot := image.NewRGBA(canvas.Bounds())
		copy(snapshot.Pix, canvas.Pix)
		frames = append(frames, snapshot)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			copy(canvas.Pix, prev.Pix)
		}
	}

	return imagesource.Animated(frames, d.frameDelays(g)), nil
}

// frameDelays converts GIF delays (hundredths of a second) to durations.
// When every frame is zero they all become DefaultDelay.
func (d FrameDecoder) frameDelays(g *gif.GIF) []time.Duration {
	delays := make([]time.Duration, len(g.Image))
	var total time.Duration
	for i := range delays {
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delays[i] = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		total += delays[i]
	}
	if total == 0 {
		fallback := d.DefaultDelay
		if fallback <= 0 {
			fallback = imagesource.DefaultFrameDelay
		}
		for i := range delays {
			delays[i] = fallback
		}
	}
	return delays
}

func backgroundColor(g *gif.GIF) color.Color {
	pal, ok := g.Config.ColorModel.(color.Palette)
	if !ok || len(pal) == 0 {
		return color.Transparent
	}
	idx := int(g.BackgroundIndex)
	if idx >= len(pal) {
		return color.Transparent
	}
	return pal[idx]
}

func exceedsPixels(width, height, maxPixels int) bool {
	if maxPixels <= 0 {
		return false
	}
	return int64(width)*int64(height) > int64(maxPixels)
}
