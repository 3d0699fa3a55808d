package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorKind classifies service failures so the HTTP layer can map them to
// status codes in one place.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is the error type returned by every service operation.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func ValidationError(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func NotFoundError(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func ConflictError(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }
func ForbiddenError(msg string) *Error  { return &Error{Kind: KindForbidden, Message: msg} }

func UnauthorizedError(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

func InternalError(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of err, KindInternal for anything that is not an *Error.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// lookupError turns a failed single-row lookup into NotFound or Internal.
func lookupError(err error, notFoundMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError(notFoundMsg)
	}
	return InternalError(notFoundMsg, err)
}

// passThrough keeps service errors intact and wraps everything else.
func passThrough(err error, msg string) error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return InternalError(msg, err)
}
