package animation

import "math"

// Span is a float64 range swept by an [AnimationController]'s progress,
// such as the content offset of a slide.
type Span struct {
	From, To float64
}

// At returns the value at progress t. From t = 1 on it returns To exactly,
// so a finished sweep lands on its target without rounding error.
func (s Span) At(t float64) float64 {
	if t >= 1 {
		return s.To
	}
	return s.From + (s.To-s.From)*t
}

// Transform returns the value at the controller's current progress.
func (s Span) Transform(controller *AnimationController) float64 {
	return s.At(controller.Value)
}

// Empty reports whether the span is shorter than epsilon.
func (s Span) Empty(epsilon float64) bool {
	return math.Abs(s.To-s.From) < epsilon
}
