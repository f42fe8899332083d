// Package imagesource models carousel images and classifies raw carousel
// items into loadable sources.
//
// A [Bitmap] is either static (one frame) or animated (several frames that
// loop over [Bitmap.Duration]). [Resolve] turns a heterogeneous item value
// into a [Source] descriptor the loader can act on.
package imagesource

import (
	"image"
	"time"
)

// DefaultFrameDelay is the per-frame duration used when an animation carries
// no timing of its own.
const DefaultFrameDelay = 100 * time.Millisecond

// Bitmap is a ready-to-display image, static or animated.
//
// Bitmaps are immutable once built and may be shared between goroutines and
// between carousel slots.
type Bitmap struct {
	// Frames holds one image for a static bitmap, several for an animation.
	Frames []image.Image
	// Delays holds the per-frame durations read from the source, if any.
	Delays []time.Duration
	// Duration is the length of one animation loop. Zero for static bitmaps.
	Duration time.Duration
}

// Static wraps a single decoded image.
func Static(img image.Image) *Bitmap {
	if img == nil {
		return nil
	}
	return &Bitmap{Frames: []image.Image{img}}
}

// Animated builds a looping bitmap. The loop length is the sum of delays;
// when that sum is zero it falls back to DefaultFrameDelay per frame.
func Animated(frames []image.Image, delays []time.Duration) *Bitmap {
	if len(frames) == 0 {
		return nil
	}
	if len(frames) == 1 {
		return Static(frames[0])
	}
	var total time.Duration
	for _, d := range delays {
		if d > 0 {
			total += d
		}
	}
	if total == 0 {
		total = DefaultFrameDelay * time.Duration(len(frames))
	}
	return &Bitmap{Frames: frames, Delays: delays, Duration: total}
}

// IsAnimated reports whether the bitmap has more than one frame.
func (b *Bitmap) IsAnimated() bool {
	return b != nil && len(b.Frames) > 1
}

// Bounds returns the bounds of the first frame.
func (b *Bitmap) Bounds() image.Rectangle {
	if b == nil || len(b.Frames) == 0 {
		return image.Rectangle{}
	}
	return b.Frames[0].Bounds()
}

// FrameAt returns the frame to show after elapsed time of playback.
//
// Frames are spaced evenly over the loop, so each frame is shown for
// Duration/len(Frames).
func (b *Bitmap) FrameAt(elapsed time.Duration) image.Image {
	if b == nil || len(b.Frames) == 0 {
		return nil
	}
	if len(b.Frames) == 1 || b.Duration <= 0 {
		return b.Frames[0]
	}
	pos := elapsed % b.Duration
	if pos < 0 {
		pos += b.Duration
	}
	i := int(int64(pos) * int64(len(b.Frames)) / int64(b.Duration))
	if i >= len(b.Frames) {
		i = len(b.Frames) - 1
	}
	return b.Frames[i]
}
