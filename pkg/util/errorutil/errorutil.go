package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors. Code and Message are safe to
// return to callers; Err is kept for logs only.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

// WrapUnauthorized is NewUnauthorized keeping cause for logging.
func WrapUnauthorized(message string, cause error) error {
	de := NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
	de.Err = cause
	return de
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// FromStatus builds a DomainError for a bare HTTP status, e.g. a router 404.
func FromStatus(status int, message string) *DomainError {
	if message == "" {
		message = http.StatusText(status)
	}
	code := "INTERNAL_ERROR"
	switch status {
	case http.StatusBadRequest:
		code = "VALIDATION_FAILED"
	case http.StatusUnauthorized:
		code = "UNAUTHORIZED"
	case http.StatusForbidden:
		code = "FORBIDDEN"
	case http.StatusNotFound:
		code = "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		code = "METHOD_NOT_ALLOWED"
	case http.StatusRequestTimeout:
		code = "TIMEOUT"
	default:
		if status < http.StatusInternalServerError {
			code = "REQUEST_FAILED"
		}
	}
	if status >= http.StatusInternalServerError {
		message = "internal server error"
	}
	return NewDomainError(code, message, status, nil)
}

// ToDomainError converts generic errors to DomainError. Unknown errors become
// opaque internal errors.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternalError(err).(*DomainError)
}
