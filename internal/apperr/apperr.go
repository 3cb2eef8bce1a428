// Package apperr defines the error kinds surfaced to API clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindValidation          Kind = "validation"
	KindInvalidAmount       Kind = "invalid_amount"
	KindStoreFailure        Kind = "store_failure"
	KindPartialBatchFailure Kind = "partial_batch_failure"
	KindConflict            Kind = "conflict"
	KindUnavailable         Kind = "unavailable"
)

// Error carries a stable kind and a message that is safe to show to clients.
// The wrapped Err is for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func InvalidAmount(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidAmount, Message: fmt.Sprintf(format, args...)}
}

// StoreFailure wraps err; msg is what the client sees.
func StoreFailure(msg string, err error) *Error {
	return &Error{Kind: KindStoreFailure, Message: msg, Err: err}
}

func PartialBatchFailure(msg string, err error) *Error {
	return &Error{Kind: KindPartialBatchFailure, Message: msg, Err: err}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Unavailable(format string, args ...any) *Error {
	return &Error{Kind: KindUnavailable, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain.
// Errors that carry no kind are treated as store failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStoreFailure
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// IsValidation reports whether err is a validation error of any sub-kind.
func IsValidation(err error) bool {
	k := KindOf(err)
	return k == KindValidation || k == KindInvalidAmount
}

// HTTPStatus maps a kind to the response status code.
func HTTPStatus(k Kind) int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindInvalidAmount:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
