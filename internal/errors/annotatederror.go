// Package errors provides error values that carry slog attributes and the
// source location where they were created. It re-exports the standard
// library helpers so callers only need one errors import.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

// annotatedError is an error with a message, optional slog attributes, and
// the source location of the call that created it.
type annotatedError struct {
	err    error
	msg    string
	attrs  []slog.Attr
	source string
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

// New returns an error that formats as the given text. It delegates to the
// standard library and carries no annotations.
func New(msg string) error {
	return errors.New(msg)
}

// NewSentinel returns an error suitable for package-level sentinel values
// compared with Is.
func NewSentinel(msg string) error {
	return &annotatedError{msg: msg, source: callerSource()}
}

// Wrap annotates err with a message and optional slog attributes. The
// attributes surface in logs through SlogError.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{err: err, msg: msg, attrs: attrs, source: callerSource()}
}

// DecoratePanic converts a value recovered from a panic into an error whose
// source points at the panic site rather than the deferred handler.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	return &annotatedError{msg: fmt.Sprintf("panic: %v", recovered), source: panicSource()}
}

// SlogError converts err into a slog.Attr grouping the message, the source
// location, and any attributes attached with Wrap.
func SlogError(err error) slog.Attr {
	const errorKey = "error"
	if err == nil {
		return slog.Group(errorKey, slog.String("message", "<nil>"))
	}

	args := []any{slog.String("message", err.Error())}

	var (
		annotations []any
		source      string
	)
	for e := err; e != nil; {
		var ae *annotatedError
		if ae, _ = e.(*annotatedError); ae == nil {
			e = errors.Unwrap(e)
			continue
		}
		if source == "" {
			source = ae.source
		}
		for _, attr := range ae.attrs {
			annotations = append(annotations, attr)
		}
		e = ae.err
	}

	if source != "" {
		args = append(args, slog.String("source", source))
	}
	if len(annotations) > 0 {
		args = append(args, slog.Group("annotations", annotations...))
	}

	return slog.Group(errorKey, args...)
}

// callerSource returns the file:line of the first caller outside this
// package and the runtime.
func callerSource() string {
	var pcs [16]uintptr
	n := runtime.Callers(2, pcs[:]) //nolint:mnd // skip Callers and this function.
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !isInternalFrame(frame) {
			return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		}
		if !more {
			return ""
		}
	}
}

// panicSource returns the file:line of the frame that panicked by locating
// the frame following runtime.gopanic on the stack.
func panicSource() string {
	var pcs [32]uintptr
	n := runtime.Callers(2, pcs[:]) //nolint:mnd // skip Callers and this function.
	frames := runtime.CallersFrames(pcs[:n])
	var (
		sawGopanic string
		fallback   string
	)
	for {
		frame, more := frames.Next()
		if frame.Function == "runtime.gopanic" {
			sawGopanic = frame.Function
		} else if !isInternalFrame(frame) {
			if sawGopanic != "" {
				return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
			}
			if fallback == "" {
				fallback = fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
			}
		}
		if !more {
			return fallback
		}
	}
}

func isInternalFrame(frame runtime.Frame) bool {
	return strings.HasSuffix(frame.File, "annotatederror.go") || strings.HasPrefix(frame.Function, "runtime.")
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target) //nolint:errorlint // direct delegation.
}

// Unwrap returns the result of calling the Unwrap method on err, if any.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join wraps the given errors into a single error.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
