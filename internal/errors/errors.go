// Package errors defines the portal's classified application error.
//
// Every failure that reaches a handler or the CLI is, somewhere in its chain, an
// *AppError. Callers branch on the code with IsCode or the Is* helpers, never on text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	ErrCodeNotFound   ErrorCode = "not_found"
	ErrCodeValidation ErrorCode = "validation"
	ErrCodeInternal   ErrorCode = "internal"
	ErrCodeTimeout    ErrorCode = "timeout"
	ErrCodeCanceled   ErrorCode = "canceled"

	// ErrCodeStorage means the durable session storage could not be read or written.
	ErrCodeStorage ErrorCode = "storage"
	// ErrCodeStorageCorruption means persisted session data could not be decoded.
	// Hydration recovers from it locally by treating the session as logged out.
	ErrCodeStorageCorruption ErrorCode = "storage_corruption"
	// ErrCodeUnauthenticated means there is no active session, or the remote API refused the token.
	ErrCodeUnauthenticated ErrorCode = "unauthenticated"
	// ErrCodeNetwork means the remote API could not be reached at all.
	ErrCodeNetwork ErrorCode = "network"
	// ErrCodeRemoteRejection means the remote API answered with a non-2xx status.
	ErrCodeRemoteRejection ErrorCode = "remote_rejection"
)

// AppError is a classified error. Message is safe to show to the user.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	// Field names the offending input for validation errors.
	Field string
	// Status is the HTTP status the remote API answered with.
	Status int
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

func newError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func NotFound(message string) *AppError        { return newError(ErrCodeNotFound, message) }
func Validation(message string) *AppError      { return newError(ErrCodeValidation, message) }
func Internal(message string) *AppError        { return newError(ErrCodeInternal, message) }
func Unauthenticated(message string) *AppError { return newError(ErrCodeUnauthenticated, message) }

// ValidationField reports invalid input for one named field.
func ValidationField(field, message string) *AppError {
	e := newError(ErrCodeValidation, message)
	e.Field = field
	return e
}

// RemoteRejection creates an error for a non-2xx answer from the remote API.
// message should be the server's own wording when it sent one.
func RemoteRejection(status int, message string) *AppError {
	e := newError(ErrCodeRemoteRejection, message)
	e.Status = status
	return e
}

// Wrap classifies err under code. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	e := newError(code, message)
	e.Cause = err
	return e
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func asAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err (or anything it wraps) is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := asAppError(err)
	return ok && appErr.Code == code
}

func IsNotFound(err error) bool        { return IsCode(err, ErrCodeNotFound) }
func IsValidation(err error) bool      { return IsCode(err, ErrCodeValidation) }
func IsInternal(err error) bool        { return IsCode(err, ErrCodeInternal) }
func IsTimeout(err error) bool         { return IsCode(err, ErrCodeTimeout) }
func IsCanceled(err error) bool        { return IsCode(err, ErrCodeCanceled) }
func IsUnauthenticated(err error) bool { return IsCode(err, ErrCodeUnauthenticated) }
func IsNetwork(err error) bool         { return IsCode(err, ErrCodeNetwork) }
func IsRemoteRejection(err error) bool { return IsCode(err, ErrCodeRemoteRejection) }

// IsStorage reports storage failures, including corruption.
func IsStorage(err error) bool {
	return IsCode(err, ErrCodeStorage) || IsCode(err, ErrCodeStorageCorruption)
}

// GetCode returns the code of the outermost AppError in err's chain, or "".
func GetCode(err error) ErrorCode {
	if appErr, ok := asAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// GetField returns the offending field of a validation error, or "".
func GetField(err error) string {
	if appErr, ok := asAppError(err); ok {
		return appErr.Field
	}
	return ""
}

// GetStatus returns the remote HTTP status carried by err, or 0.
func GetStatus(err error) int {
	if appErr, ok := asAppError(err); ok {
		return appErr.Status
	}
	return 0
}
