package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// maxStackDepth bounds the frames captured for a recovered panic.
const maxStackDepth = 32

// handlerBox lets atomic.Value hold handlers of different concrete types.
type handlerBox struct{ h ErrorHandler }

var current atomic.Value // handlerBox

func init() {
	current.Store(handlerBox{&LogHandler{}})
}

// Handler returns the global error handler.
func Handler() ErrorHandler {
	return current.Load().(handlerBox).h
}

// SetHandler replaces the global error handler and returns the previous
// one. Pass nil to restore the default LogHandler. Safe for concurrent use
// with Report from loader goroutines.
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = &LogHandler{}
	}
	return current.Swap(handlerBox{h}).(handlerBox).h
}

// HandlerFuncs adapts a pair of functions to ErrorHandler. Nil fields
// ignore the corresponding reports.
type HandlerFuncs struct {
	Error func(*CarouselError)
	Panic func(*PanicError)
}

// HandleError implements ErrorHandler.
func (f HandlerFuncs) HandleError(err *CarouselError) {
	if f.Error != nil {
		f.Error(err)
	}
}

// HandlePanic implements ErrorHandler.
func (f HandlerFuncs) HandlePanic(err *PanicError) {
	if f.Panic != nil {
		f.Panic(err)
	}
}

// Report stamps err with the current time, if unset, and passes it to the
// global handler.
func Report(err *CarouselError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic passes a recovered panic to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	Handler().HandlePanic(err)
}

// Recover reports a panic in progress. Use it deferred:
//
//	defer errors.Recover("imageload.fetch")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{
			Op:         op,
			Value:      r,
			StackTrace: CaptureStack(),
			Timestamp:  time.Now(),
		})
	}
}

// CaptureStack returns the caller's stack, one "function\n\tfile:line"
// entry per frame, without CaptureStack itself.
func CaptureStack() string {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return sb.String()
}
