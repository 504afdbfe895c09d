// ABOUTME: Normalized error taxonomy shared by every component
// ABOUTME: Backend error shapes are folded into one Error with a Kind and a message

package apierr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for handling and display.
type Kind string

const (
	KindAuth           Kind = "auth"
	KindConfigNotFound Kind = "config_not_found"
	KindNetwork        Kind = "network"
	KindValidation     Kind = "validation"
	KindAlreadyRunning Kind = "already_running"
	KindOptimization   Kind = "optimization"
)

// Error is the single error type returned across component boundaries.
// Status is the HTTP status when the backend replied, zero otherwise.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithStatus records the HTTP status the backend replied with.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// WithCause sets the underlying error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// Auth creates an authentication error.
func Auth(message string) *Error {
	return New(KindAuth, message)
}

// ConfigNotFound creates an error for a missing configuration document.
func ConfigNotFound(message string) *Error {
	return New(KindConfigNotFound, message)
}

// Network creates a transport or generic backend error.
func Network(message string) *Error {
	return New(KindNetwork, message)
}

// Validation creates an error for input the backend rejected.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// AlreadyRunning creates an error for a duplicate live simulation request.
func AlreadyRunning(message string) *Error {
	return New(KindAlreadyRunning, message)
}

// Optimization creates an error for a backend failure during optimize or simulate.
func Optimization(message string) *Error {
	return New(KindOptimization, message)
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind checks if an error is of a specific kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StatusOf returns the HTTP status carried by err, or zero.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// Reclassify returns a copy of err with a new kind, keeping status, message and cause.
// Errors that are not *Error are returned unchanged.
func Reclassify(err error, kind Kind) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	out := *e
	out.Kind = kind
	return &out
}
