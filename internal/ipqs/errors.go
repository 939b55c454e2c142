package ipqs

import (
	"errors"
	"fmt"
)

// ErrorKind classifies client errors so callers can branch without string
// matching on the detail message.
type ErrorKind string

const (
	ErrKindValidation       ErrorKind = "validation_error"
	ErrKindAPI              ErrorKind = "api_error"
	ErrKindJSON             ErrorKind = "json_error"
	ErrKindMissingField     ErrorKind = "missing_field"
	ErrKindMissingParameter ErrorKind = "missing_parameter"
)

// Error is the value returned for every failure in this package. Transport
// failures, non-200 statuses and API-reported errors all surface as
// ErrKindAPI; malformed input never reaches the network and surfaces as
// ErrKindValidation.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...interface{}) *Error {
	return newError(ErrKindValidation, format, args...)
}

func apiError(format string, args ...interface{}) *Error {
	return newError(ErrKindAPI, format, args...)
}

// KindOf returns the kind of err if it is (or wraps) an *Error, and "" otherwise.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
