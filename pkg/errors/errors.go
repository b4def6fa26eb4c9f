// Package errors defines the error kinds returned by event construction and codecs.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can react without matching messages.
type Kind int

const (
	// KindUnknown is any error not produced by this module.
	KindUnknown Kind = iota
	// KindType means a value had the wrong shape for the field it was given to.
	KindType
	// KindDecode means the input bytes or text were rejected by the parser.
	KindDecode
	// KindUnavailable means a codec whose runtime is missing was requested.
	KindUnavailable
	// KindValidation means a required attribute is missing or a value does not fit a format.
	KindValidation
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindDecode:
		return "decode"
	case KindUnavailable:
		return "unavailable"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Sentinel errors for common conditions.
var (
	ErrUnavailable = errors.New("codec unavailable")
	ErrNoEvents    = errors.New("no events to encode")
)

// TypeError reports a value of an unexpected shape.
type TypeError struct {
	Field    string
	Expected string
	Got      string
}

func (e *TypeError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("type error: %s must be %s", e.Field, e.Expected)
	}
	return fmt.Sprintf("type error: %s must be %s, got %s", e.Field, e.Expected, e.Got)
}

// DecodeError wraps a parser failure for a given wire format.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: format=%s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ValidationError represents a missing required attribute or a value a format cannot carry.
type ValidationError struct {
	EventID string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: event_id=%s field=%s: %s",
		e.EventID, e.Field, e.Reason)
}

// Unavailable returns an error that matches ErrUnavailable and carries the cause.
func Unavailable(format string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, format)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, format, cause)
}

// NewTypeError builds a TypeError naming the Go type of the offending value.
func NewTypeError(field, expected string, got any) *TypeError {
	return &TypeError{
		Field:    field,
		Expected: expected,
		Got:      fmt.Sprintf("%T", got),
	}
}

// KindOf classifies err.
// It checks the typed errors first and then the sentinels, so wrapped errors are classified too.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var typeErr *TypeError
	if errors.As(err, &typeErr) {
		return KindType
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return KindDecode
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return KindValidation
	}

	if errors.Is(err, ErrUnavailable) {
		return KindUnavailable
	}

	return KindUnknown
}

// IsUnavailable reports whether err means a codec runtime is missing.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
