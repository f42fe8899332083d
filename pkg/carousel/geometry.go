package carousel

// Indicator layout constants.
const (
	IndicatorHeight    = 25
	indicatorPageWidth = 20
)

// Rect is an axis-aligned rectangle in points.
type Rect struct {
	X, Y, Width, Height float64
}

// IndicatorFrame returns the page indicator frame for the given bounds.
// The indicator is 20 points wide per page, capped at the bounds width, and
// sits on the bottom edge aligned by position. Coordinates are relative to
// the carousel's origin.
func IndicatorFrame(bounds Rect, pages int, position IndicatorPosition) Rect {
	w := indicatorPageWidth * float64(max(pages, 0))
	if w > bounds.Width {
		w = bounds.Width
	}
	frame := Rect{
		Y:      bounds.Height - IndicatorHeight,
		Width:  w,
		Height: IndicatorHeight,
	}
	switch position {
	case BottomLeft:
		frame.X = 0
	case BottomCenter:
		frame.X = (bounds.Width - w) / 2
	default:
		frame.X = bounds.Width - w
	}
	return frame
}
