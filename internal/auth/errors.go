package auth

import (
	"errors"
	"fmt"
)

// Reason names why an authentication or authorization step failed.
// It is meant for logs and metrics; callers only ever see a generic message.
type Reason string

const (
	ReasonInvalidCredentials Reason = "INVALID_CREDENTIALS"
	ReasonStoreUnavailable   Reason = "STORE_UNAVAILABLE"
	ReasonMalformedHash      Reason = "MALFORMED_HASH"
	ReasonMalformedToken     Reason = "MALFORMED_TOKEN"
	ReasonBadSignature       Reason = "BAD_SIGNATURE"
	ReasonExpired            Reason = "EXPIRED"
	ReasonMissingToken       Reason = "MISSING_TOKEN"
)

// Internal reports whether the reason is a server-side fault rather than a rejected caller.
func (r Reason) Internal() bool {
	return r == ReasonStoreUnavailable || r == ReasonMalformedHash
}

// Sentinels for errors.Is. They match any *Error carrying the same Reason.
var (
	ErrInvalidCredentials = &Error{Reason: ReasonInvalidCredentials}
	ErrStoreUnavailable   = &Error{Reason: ReasonStoreUnavailable}
	ErrMalformedHash      = &Error{Reason: ReasonMalformedHash}
	ErrMalformedToken     = &Error{Reason: ReasonMalformedToken}
	ErrBadSignature       = &Error{Reason: ReasonBadSignature}
	ErrExpired            = &Error{Reason: ReasonExpired}
	ErrMissingToken       = &Error{Reason: ReasonMissingToken}
)

// Error is the single error type produced by the auth core.
type Error struct {
	Reason Reason
	Detail string
	Err    error
}

func newError(reason Reason, detail string, err error) *Error {
	return &Error{Reason: reason, Detail: detail, Err: err}
}

func (e *Error) Error() string {
	msg := string(e.Reason)
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Reason so sentinels compare equal to detailed errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Reason == e.Reason
}

// ReasonOf extracts the Reason from an auth error chain.
func ReasonOf(err error) (Reason, bool) {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Reason, true
	}
	return "", false
}
