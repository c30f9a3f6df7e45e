// Package apperr defines the error kinds surfaced by the catalog core.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers
type Kind int

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindBadRequest
	KindConflict
	KindUploadFailure
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindConflict:
		return "conflict"
	case KindUploadFailure:
		return "upload_failure"
	default:
		return "unexpected"
	}
}

// Error is a classified error with a caller-safe message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a missing entity
func NotFound(entity, id string) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found with id: %s", entity, id)}
}

// BadRequest reports malformed caller input
func BadRequest(format string, args ...any) error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a lost optimistic-concurrency race
func Conflict(entity, id string) error {
	return &Error{
		Kind:    KindConflict,
		Message: fmt.Sprintf("%s %s was modified concurrently, reload and retry", entity, id),
	}
}

// UploadFailure reports a blob store write failure
func UploadFailure(msg string, err error) error {
	return &Error{Kind: KindUploadFailure, Message: msg, Err: err}
}

// Unexpected wraps an infrastructure failure
func Unexpected(msg string, err error) error {
	return &Error{Kind: KindUnexpected, Message: msg, Err: err}
}

// KindOf returns the kind of err, KindUnexpected for unclassified errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the caller-safe message of err
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "An unexpected error occurred"
}
