// Package errors provides structured error handling for the carousel.
//
// Image loading in a carousel is best effort: failures are reported to a
// global [ErrorHandler] and then handled locally by the component that hit
// them. Nothing in this package propagates an error back to the host.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindFetch indicates a network or IO failure fetching remote bytes.
	KindFetch
	// KindDecode indicates bytes that were present but could not be decoded.
	KindDecode
	// KindUnsupportedSource indicates an item the resolver could not classify.
	KindUnsupportedSource
	// KindAsset indicates a local asset that could not be found or opened.
	KindAsset
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindDecode:
		return "decode"
	case KindUnsupportedSource:
		return "unsupported_source"
	case KindAsset:
		return "asset"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// CarouselError represents a structured error raised while resolving or
// loading a carousel item.
type CarouselError struct {
	// Op is the operation that failed (e.g., "imageload.Fetch").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Source is the URL or asset name involved, if any.
	Source string
	// Index is the item index the load was issued for, or -1.
	Index int
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *CarouselError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s [%s] source=%s: %v", e.Op, e.Kind, e.Source, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *CarouselError) Unwrap() error {
	return e.Err
}

// New returns a CarouselError with no index attached.
func New(op string, kind ErrorKind, source string, err error) *CarouselError {
	return &CarouselError{Op: op, Kind: kind, Source: source, Index: -1, Err: err}
}

// KindOf reports the kind of the first CarouselError in err's chain.
func KindOf(err error) ErrorKind {
	var ce *CarouselError
	if stderrors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "engine.StepFrame").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the carousel.
type ErrorHandler interface {
	// HandleError is called when a load or resolve step fails.
	HandleError(err *CarouselError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
