// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tablejson

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three failure categories. Use errors.Is to
// classify an error returned by a Scanner, Reader, or Writer.
var (
	// ErrScan reports malformed lexical input.
	ErrScan = errors.New("scan error")

	// ErrFormat reports well-formed tokens that violate the entity grammar.
	ErrFormat = errors.New("format error")

	// ErrUsage reports a method called in a state that does not permit it.
	ErrUsage = errors.New("usage error")

	// ErrDisposed reports a method called after Close. It also matches ErrUsage.
	ErrDisposed = fmt.Errorf("%w: use after close", ErrUsage)
)

// ScanError is the concrete type of lexical errors reported by a Scanner.
type ScanError struct {
	Offset   int      // byte offset in the input where scanning failed
	Location Location // line and column of the token being scanned
	Message  string

	err error
}

// Error satisfies the error interface.
func (e *ScanError) Error() string {
	return fmt.Sprintf("at %s: %s (offset %d)", e.Location.First, e.Message, e.Offset)
}

// Unwrap supports error wrapping.
func (e *ScanError) Unwrap() []error {
	if e.err != nil {
		return []error{ErrScan, e.err}
	}
	return []error{ErrScan}
}

// FormatError is the concrete type of errors reported when the input is
// lexically valid but does not match the typed entity grammar.
type FormatError struct {
	Expected string // a description of what the grammar required
	Actual   string // a description of what the input contained
	Message  string // optional additional context
}

func formatErrorf(want, got any, msg string, args ...any) *FormatError {
	return &FormatError{
		Expected: fmt.Sprint(want),
		Actual:   fmt.Sprint(got),
		Message:  fmt.Sprintf(msg, args...),
	}
}

// Error satisfies the error interface.
func (e *FormatError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: expected %s, got %s", e.Message, e.Expected, e.Actual)
}

// Unwrap supports error wrapping.
func (e *FormatError) Unwrap() error { return ErrFormat }

// UsageError is the concrete type of errors reported when a method of a
// Scanner, Reader, or Writer is called in a state that does not permit it.
// A UsageError indicates a bug in the caller, not a problem with the data.
type UsageError struct {
	Op    string // the method called
	State string // the state of the session at the time of the call

	disposed bool
}

// Error satisfies the error interface.
func (e *UsageError) Error() string {
	if e.disposed {
		return fmt.Sprintf("%s: use after close", e.Op)
	}
	return fmt.Sprintf("%s: not valid in state %s", e.Op, e.State)
}

// Unwrap supports error wrapping.
func (e *UsageError) Unwrap() error {
	if e.disposed {
		return ErrDisposed
	}
	return ErrUsage
}

func usageError(op string, state fmt.Stringer) *UsageError {
	return &UsageError{Op: op, State: state.String()}
}

func disposedError(op string) *UsageError {
	return &UsageError{Op: op, State: "closed", disposed: true}
}
