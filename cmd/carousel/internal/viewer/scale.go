package viewer

import (
	"fmt"
	"image"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/draw"
)

// DefaultScaleCacheSize is the number of scaled frames a Scaler keeps.
const DefaultScaleCacheSize = 128

// Scaler aspect-fills images into page-sized RGBA frames and caches the
// results, so an animation only pays for scaling once per frame.
type Scaler struct {
	interp draw.Interpolator
	cache  *lru.Cache[scaleKey, *image.RGBA]
}

type scaleKey struct {
	src           image.Image
	width, height int
}

// NewScaler creates a scaler. A nil interpolator uses draw.ApproxBiLinear;
// a non-positive size uses DefaultScaleCacheSize. onEvict, when set, is
// called with every frame dropped from the cache.
func NewScaler(interp draw.Interpolator, size int, onEvict func(*image.RGBA)) (*Scaler, error) {
	if interp == nil {
		interp = draw.ApproxBiLinear
	}
	if size <= 0 {
		size = DefaultScaleCacheSize
	}
	cache, err := lru.NewWithEvict[scaleKey, *image.RGBA](size, func(_ scaleKey, img *image.RGBA) {
		if onEvict != nil {
			onEvict(img)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scale cache: %w", err)
	}
	return &Scaler{interp: interp, cache: cache}, nil
}

// Fill returns src scaled to cover width x height, cropped to the centre.
func (s *Scaler) Fill(src image.Image, width, height int) *image.RGBA {
	if src == nil || width <= 0 || height <= 0 {
		return nil
	}
	key := scaleKey{src: src, width: width, height: height}
	if img, ok := s.cache.Get(key); ok {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	s.interp.Scale(dst, dst.Bounds(), src, FillSource(src.Bounds(), width, height), draw.Src, nil)
	s.cache.Add(key, dst)
	return dst
}

// Len returns the number of cached frames.
func (s *Scaler) Len() int { return s.cache.Len() }

// Purge drops every cached frame.
func (s *Scaler) Purge() { s.cache.Purge() }

// FillSource returns the centred region of src with the aspect ratio of a
// width x height view, which is the part an aspect fill keeps.
func FillSource(src image.Rectangle, width, height int) image.Rectangle {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	if sw <= 0 || sh <= 0 || width <= 0 || height <= 0 {
		return src
	}
	scale, _, _ := AspectFill(float64(width), float64(height), sw, sh)
	cw := math.Min(sw, math.Round(float64(width)/scale))
	ch := math.Min(sh, math.Round(float64(height)/scale))
	x0 := src.Min.X + int((sw-cw)/2)
	y0 := src.Min.Y + int((sh-ch)/2)
	return image.Rect(x0, y0, x0+int(cw), y0+int(ch))
}

// AspectFill returns the scale and offsets that cover a view with a frame,
// cropping whichever dimension overflows.
func AspectFill(viewW, viewH, frameW, frameH float64) (scale, offsetX, offsetY float64) {
	scale = math.Max(viewW/frameW, viewH/frameH)
	offsetX = (viewW - frameW*scale) / 2
	offsetY = (viewH - frameH*scale) / 2
	return
}
