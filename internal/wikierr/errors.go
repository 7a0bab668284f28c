// Package wikierr holds the error kinds surfaced by the parsing core.
//
// Markup irregularities never produce errors; they degrade the output
// instead. Only bad call-level input and broken internal invariants do.
package wikierr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal parser fault")
)

// Internalf wraps a formatted message with ErrInternal.
func Internalf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInternal, fmt.Sprintf(format, args...))
}

// Invalidf wraps a formatted message with ErrInvalidInput.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// FromPanic converts a recovered panic value into an ErrInternal error.
func FromPanic(op string, v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, v)
}
