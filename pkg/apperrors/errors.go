package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. Handlers map kinds to HTTP status
// codes; services never pick status codes themselves.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindConflict       Kind = "conflict"
	KindNotFound       Kind = "not_found"
	KindPermission     Kind = "permission"
	KindAuthentication Kind = "authentication"
	KindInternal       Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	// Details carries structured context for the caller, e.g. the list
	// of conflicting bookings on a Conflict error.
	Details any
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

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Conflict(message string, details any) *Error {
	return &Error{Kind: KindConflict, Message: message, Details: details}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Permission(message string) *Error {
	return &Error{Kind: KindPermission, Message: message}
}

func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the Kind from an error chain. Anything that is not an
// *Error counts as internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As unwraps err into *Error, or nil if it is not one.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
