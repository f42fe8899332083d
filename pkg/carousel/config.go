package carousel

import (
	"fmt"
	"strings"
	"time"
)

// Defaults applied by [DefaultConfig] and to zero Config fields.
const (
	DefaultTimeInterval       = 2 * time.Second
	DefaultTransitionDuration = 300 * time.Millisecond
	DefaultFlickVelocity      = 1.5
)

// IndicatorPosition places the page indicator along the bottom edge.
type IndicatorPosition int

const (
	// BottomRight aligns the indicator with the bottom-right corner.
	BottomRight IndicatorPosition = iota
	// BottomLeft aligns the indicator with the bottom-left corner.
	BottomLeft
	// BottomCenter centers the indicator horizontally.
	BottomCenter
)

// String returns a human-readable representation of the position.
func (p IndicatorPosition) String() string {
	switch p {
	case BottomRight:
		return "bottom-right"
	case BottomLeft:
		return "bottom-left"
	case BottomCenter:
		return "bottom-center"
	default:
		return fmt.Sprintf("IndicatorPosition(%d)", int(p))
	}
}

// ParseIndicatorPosition parses the String form of a position. An empty
// string yields BottomRight.
func ParseIndicatorPosition(s string) (IndicatorPosition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bottom-right":
		return BottomRight, nil
	case "bottom-left":
		return BottomLeft, nil
	case "bottom-center":
		return BottomCenter, nil
	}
	return BottomRight, fmt.Errorf("unknown indicator position %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p IndicatorPosition) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *IndicatorPosition) UnmarshalText(text []byte) error {
	v, err := ParseIndicatorPosition(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// TransitionMode selects how the carousel moves between pages on autoplay.
type TransitionMode int

const (
	// Slide scrolls the next page in from the right.
	Slide TransitionMode = iota
	// CrossFade fades the next page in over the current one.
	CrossFade
)

// String returns a human-readable representation of the mode.
func (m TransitionMode) String() string {
	switch m {
	case Slide:
		return "slide"
	case CrossFade:
		return "crossfade"
	default:
		return fmt.Sprintf("TransitionMode(%d)", int(m))
	}
}

// ParseTransitionMode parses the String form of a mode. An empty string
// yields Slide.
func ParseTransitionMode(s string) (TransitionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "slide":
		return Slide, nil
	case "crossfade", "fade":
		return CrossFade, nil
	}
	return Slide, fmt.Errorf("unknown transition mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m TransitionMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *TransitionMode) UnmarshalText(text []byte) error {
	v, err := ParseTransitionMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Config holds carousel options. Zero durations and velocities select the
// defaults; start from [DefaultConfig] to get AutoCache enabled.
type Config struct {
	// AutoCache replaces a remote item with its decoded bitmap once loaded,
	// so showing the same index again never refetches.
	AutoCache bool

	// TimeInterval is the autoplay period.
	TimeInterval time.Duration

	// IndicatorPosition places the page indicator.
	IndicatorPosition IndicatorPosition

	// TransitionMode is the autoplay transition.
	TransitionMode TransitionMode

	// TransitionDuration is the length of a slide animation, for autoplay
	// and for drag settling.
	TransitionDuration time.Duration

	// FadeDuration is the length of a cross-fade. Defaults to TimeInterval.
	FadeDuration time.Duration

	// FlickVelocity is the release speed, in pages per second, above which
	// a drag commits even if it moved less than half a page.
	FlickVelocity float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		AutoCache:          true,
		TimeInterval:       DefaultTimeInterval,
		TransitionDuration: DefaultTransitionDuration,
		FlickVelocity:      DefaultFlickVelocity,
	}
}

func (c Config) withDefaults() Config {
	if c.TimeInterval <= 0 {
		c.TimeInterval = DefaultTimeInterval
	}
	if c.TransitionDuration <= 0 {
		c.TransitionDuration = DefaultTransitionDuration
	}
	if c.FadeDuration <= 0 {
		c.FadeDuration = c.TimeInterval
	}
	if c.FlickVelocity <= 0 {
		c.FlickVelocity = DefaultFlickVelocity
	}
	return c
}
