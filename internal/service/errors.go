// Package service holds the business rules of the cookbook backend. The
// sentinel errors below form the failure taxonomy; handlers translate them
// into HTTP status codes and never expose anything beyond the wrapped
// message.
package service

import (
	"errors"
	"fmt"
)

// ErrNotFound means the referenced entity does not exist at all.
var ErrNotFound = errors.New("not found")

// ErrForbidden means the entity exists but the caller lacks rights on it:
// not the owner, not published, already published, or missing a scope.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthenticated means no valid credential was presented.
var ErrUnauthenticated = errors.New("not authenticated")

// ErrValidation means the input was malformed or violated a uniqueness
// constraint the caller can fix (e.g. a taken username).
var ErrValidation = errors.New("validation failed")

// ErrTooLarge means an upload exceeded the size ceiling.
var ErrTooLarge = errors.New("payload too large")

// ErrInvalidCredentials is returned for every login failure so callers
// cannot enumerate usernames through distinguishable messages.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// taggedError carries a user-facing message while matching one of the
// sentinels through errors.Is. The sentinel never leaks into the message.
type taggedError struct {
	kind error
	msg  string
}

func (e *taggedError) Error() string { return e.msg }

func (e *taggedError) Unwrap() error { return e.kind }

func errorOf(kind error, format string, args ...interface{}) error {
	return &taggedError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
