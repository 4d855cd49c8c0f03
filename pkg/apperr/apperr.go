// Package apperr defines the shared error-kind taxonomy used across every
// component so the supervisor can match on kind, never on ad-hoc strings or
// generic errors, to decide how a failure surfaces to the user. Mirrors the
// teacher's pkg/api/errors.go mapServiceError style of classifying
// service-layer errors, generalised from a fixed sentinel list to a Kind
// enum because this domain has more failure kinds than the teacher's.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is a closed set of error categories (SPEC_FULL.md §7).
type Kind string

const (
	KindTransient       Kind = "transient"
	KindPermanentConfig Kind = "permanent_config"
	KindQuotaExhausted  Kind = "quota_exhausted"
	KindAuthRevoked     Kind = "auth_revoked"
	KindValidation      Kind = "validation"
	KindInvariant       Kind = "invariant"
)

// Error wraps a cause with a Kind and a prose message safe to show a user.
// Internal logs should log the cause too; UserMessage is the prose-plus-
// next-step text the supervisor returns verbatim.
type Error struct {
	Kind        Kind
	UserMessage string
	Cause       error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.UserMessage, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.UserMessage)
}

func (e *Error) Unwrap() error { return e.Cause }

// Wrap builds a new *Error. cause may be nil for purely synthetic failures
// (e.g. validation errors with no underlying error value).
func Wrap(kind Kind, userMessage string, cause error) *Error {
	return &Error{Kind: kind, UserMessage: userMessage, Cause: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
