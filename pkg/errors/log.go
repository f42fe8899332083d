package errors

import (
	"log/slog"
)

// LogHandler is an ErrorHandler that writes structured log records.
type LogHandler struct {
	// Logger receives the records. A nil Logger uses slog.Default().
	Logger *slog.Logger
	// Verbose enables stack traces on panics and debug detail on errors.
	Verbose bool
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandleError logs a CarouselError at warn level.
func (h *LogHandler) HandleError(err *CarouselError) {
	if err == nil {
		return
	}
	attrs := []any{
		slog.String("op", err.Op),
		slog.String("kind", err.Kind.String()),
		slog.Any("err", err.Err),
	}
	if err.Source != "" {
		attrs = append(attrs, slog.String("source", err.Source))
	}
	if err.Index >= 0 {
		attrs = append(attrs, slog.Int("index", err.Index))
	}
	h.logger().Warn("carousel error", attrs...)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{slog.String("op", err.Op), slog.Any("value", err.Value)}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, slog.String("stack", err.StackTrace))
	}
	h.logger().Error("carousel panic", attrs...)
}
