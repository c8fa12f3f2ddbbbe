// Package faults classifies business errors into a small set of kinds so the
// HTTP adapter can map them to status codes without inspecting store internals.
package faults

import (
	"errors"
	"fmt"
)

// Kind is the classification of a business error.
type Kind int

const (
	// KindInternal is the zero value: an unclassified infrastructure failure.
	KindInternal Kind = iota
	// KindNotFound: the referenced entity does not exist or is outside the caller's scope.
	KindNotFound
	// KindForbidden: the caller lacks the required role.
	KindForbidden
	// KindConflict: the request would violate a uniqueness or lifecycle invariant.
	KindConflict
	// KindInvalidState: the operation does not apply to the entity's current state.
	KindInvalidState
	// KindInvalidArgument: malformed or missing input.
	KindInvalidArgument
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindInvalidState:
		return "invalid_state"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "internal"
	}
}

// Fault is an error carrying a Kind.
type Fault struct {
	kind Kind
	err  error
}

// Error implements the error interface.
func (f *Fault) Error() string { return f.err.Error() }

// Unwrap exposes the wrapped error to errors.Is/As.
func (f *Fault) Unwrap() error { return f.err }

// Kind returns the fault's classification.
func (f *Fault) Kind() Kind { return f.kind }

// New creates a classified fault from a message.
func New(kind Kind, msg string) error {
	return &Fault{kind: kind, err: errors.New(msg)}
}

// Newf creates a classified fault from a format string.
func Newf(kind Kind, format string, args ...any) error {
	return &Fault{kind: kind, err: fmt.Errorf(format, args...)}
}

// Wrap classifies an existing error. A nil error stays nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Fault{kind: kind, err: err}
}

// KindOf extracts the kind from an error chain.
// POST: returns KindInternal for nil chains and unclassified errors
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.kind
	}
	return KindInternal
}

// NotFound reports whether err is classified as KindNotFound.
func NotFound(err error) bool { return KindOf(err) == KindNotFound }

// Conflict reports whether err is classified as KindConflict.
func Conflict(err error) bool { return KindOf(err) == KindConflict }
