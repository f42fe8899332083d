package testing

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/go-drift/carousel/pkg/imagesource"
)

var fixturePalette = color.Palette{
	color.RGBA{0, 0, 0, 0},
	color.RGBA{255, 0, 0, 255},
	color.RGBA{0, 0, 255, 255},
	color.RGBA{0, 255, 0, 255},
}

// Solid returns a static bitmap of the given size filled with c.
func Solid(w, h int, c color.Color) *imagesource.Bitmap {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return imagesource.Static(img)
}

// PNG encodes a w×h opaque PNG.
func PNG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 16), uint8(y * 16), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// GIF encodes a 4×4 GIF with one frame per delay. Delays are in hundredths
// of a second, as stored in the file.
func GIF(t testing.TB, delays ...int) []byte {
	t.Helper()
	g := &gif.GIF{
		Config: image.Config{ColorModel: fixturePalette, Width: 4, Height: 4},
	}
	for i, d := range delays {
		frame := image.NewPaletted(image.Rect(0, 0, 4, 4), fixturePalette)
		idx := uint8(1 + i%(len(fixturePalette)-1))
		for p := range frame.Pix {
			frame.Pix[p] = idx
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, d)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return buf.Bytes()
}
