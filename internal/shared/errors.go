package shared

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an AppError into one HTTP outcome
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindRateLimited
)

// Generic error codes. Domains define their own (BOOK001, REV002, ...).
const (
	ErrCodeValidation      = "VAL001"
	ErrCodeUnauthenticated = "AUTH001"
	ErrCodeForbidden       = "AUTH002"
	ErrCodeNotFound        = "NF001"
	ErrCodeRateLimited     = "RL001"
	ErrCodeInternal        = "SYS001"
)

// ServerErrorMessage is the only message a 500 ever carries
const ServerErrorMessage = "Server error, please try again later"

// AppError is the error type every layer above the repositories speaks.
// Message is safe to show to the caller; Err stays internal.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the kind to an HTTP status
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error constructors
func NewValidationError(code, message string) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Message: message}
}

func NewAuthenticationError(message string) *AppError {
	return &AppError{Kind: KindAuthentication, Code: ErrCodeUnauthenticated, Message: message}
}

func NewAuthorizationError(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Code: ErrCodeForbidden, Message: message}
}

func NewNotFoundError(code, message string, err error) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: message, Err: err}
}

func NewInternalError(err error) *AppError {
	return &AppError{Kind: KindInternal, Code: ErrCodeInternal, Message: ServerErrorMessage, Err: err}
}

// AsAppError unwraps err into an *AppError when there is one in the chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an AppError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}
