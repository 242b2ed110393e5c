// Package apperr classifies failures so callers branch on kind instead of message text.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind enumerates failure classes.
type Kind int

const (
	KindInternal Kind = iota
	// KindInput is bad caller input: unsupported file, empty text, missing field.
	KindInput
	// KindTransient is a rate-limit, quota, timeout or 5xx from an external call; retryable.
	KindTransient
	// KindPermanent is an external-call failure that will not succeed on retry.
	KindPermanent
	// KindMalformed is generator output that is not parseable or violates its schema.
	KindMalformed
	// KindPrecondition is a pipeline stage invoked without its upstream fields.
	KindPrecondition
	KindNotFound
	// KindUnavailable is a backing resource that cannot be reached.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	case KindMalformed:
		return "malformed"
	case KindPrecondition:
		return "precondition"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error carries a Kind and the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// E wraps err with kind and op. A nil err yields an error describing only the kind.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a kinded error from a format string.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the outermost Kind in err's chain. Context deadline errors are
// transient; cancellation and unkinded errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTransient
	}
	return KindInternal
}

// Is reports whether err is of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Retryable reports whether err should be retried.
func Retryable(err error) bool {
	return Is(err, KindTransient)
}

// Message returns err's text without the operation prefix of the outermost
// kinded error, for client-facing responses.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return err.Error()
}
