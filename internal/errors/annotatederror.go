// Package errors provides error wrapping with slog annotations and stack traces.
//
// It re-exports the stdlib errors functions so that callers only need one errors import.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
)

// annotatedError carries a message, an optional wrapped error, slog annotations,
// and the call stack captured at wrap time.
type annotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
	stack []uintptr
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// callers captures the stack of the caller's caller, i.e. skipping the exported
// functions of this package so that the captured stack starts at the wrap site.
func callers() []uintptr {
	const maxDepth = 32
	pcs := make([]uintptr, maxDepth)
	// 3 skips runtime.Callers, this function, and the exported wrapper.
	n := runtime.Callers(3, pcs) //nolint:mnd // see comment above.
	return pcs[:n]
}

// Wrap annotates err with a message and optional [slog.Attr] annotations.
//
// The wrapped error participates in [Is], [As], and [Unwrap] chains. The call
// site is recorded so that [SlogError] can point at the origin of the error.
func Wrap(err error, message string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:   message,
		err:   err,
		attrs: attrs,
		stack: callers(),
	}
}

// sentinelError is a comparable error without a stack trace, suitable for
// package-level sentinel values checked with [Is].
type sentinelError string

func (e sentinelError) Error() string {
	return string(e)
}

// NewSentinel creates a sentinel error intended for package-level variables.
func NewSentinel(message string) error {
	return sentinelError(message)
}

// DecoratePanic converts a recovered panic value into an error with the panic
// site in its stack trace. Returns nil when excp is nil.
func DecoratePanic(excp any) error {
	if excp == nil {
		return nil
	}
	return &annotatedError{
		msg:   fmt.Sprintf("panic: %v", excp),
		err:   nil,
		attrs: nil,
		stack: callers(),
	}
}

// SlogError renders err into a single [slog.Attr] with the error message, the
// annotations collected from the whole error chain, and the stack trace of the
// outermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}

	var (
		annotations []slog.Attr
		stack       []uintptr
	)
	// Breadth-first walk over the error chain. Handles both Unwrap() error and
	// Unwrap() []error without revisiting branches.
	queue := []error{err}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == nil {
			continue
		}
		if annotated, ok := current.(*annotatedError); ok { //nolint:errorlint // walking the chain manually.
			annotations = append(annotations, annotated.attrs...)
			if stack == nil {
				stack = annotated.stack
			}
		}
		switch unwrappable := current.(type) { //nolint:errorlint // walking the chain manually.
		case interface{ Unwrap() error }:
			queue = append(queue, unwrappable.Unwrap())
		case interface{ Unwrap() []error }:
			queue = append(queue, unwrappable.Unwrap()...)
		}
	}

	attrs := []slog.Attr{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Attr{Key: "annotations", Value: slog.GroupValue(annotations...)})
	}
	if trace := formatStack(stack); trace != "" {
		attrs = append(attrs, slog.String("stack", trace))
	}
	return slog.Attr{Key: "error", Value: slog.GroupValue(attrs...)}
}

// formatStack renders the captured stack as "file.go:123 fn" lines, skipping
// runtime internals such as gopanic frames.
func formatStack(stack []uintptr) string {
	if len(stack) == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(stack)
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !strings.HasPrefix(frame.Function, "runtime.") {
			if sb.Len() > 0 {
				sb.WriteString(" <- ")
			}
			sb.WriteString(shortFile(frame.File))
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(frame.Line))
			sb.WriteByte(' ')
			sb.WriteString(frame.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// shortFile trims the file path down to the last two path elements.
func shortFile(file string) string {
	idx := strings.LastIndexByte(file, '/')
	if idx < 0 {
		return file
	}
	if idx = strings.LastIndexByte(file[:idx], '/'); idx < 0 {
		return file
	}
	return file[idx+1:]
}

// New returns an error with the given text. See [errors.New].
func New(text string) error {
	return errors.New(text) //nolint:err113 // re-export.
}

// Is reports whether any error in err's chain matches target. See [errors.Is].
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target. See [errors.As].
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join wraps the given errors into a single error. See [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Unwrap returns the result of calling the Unwrap method on err. See [errors.Unwrap].
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
