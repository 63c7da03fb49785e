// Package errors provides the closed set of coded errors returned by Attic operations.
//
// Every failure a caller can observe carries a stable Code plus a message that is
// safe to show to a person. Services return these; the API layer turns them into
// HTTP responses.
//
//	if errors.Is(err, errors.ErrISBNExists) { ... }
//
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeSameTag:
//	    case errors.CodeSourceNotFound, errors.CodeTargetNotFound:
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeValidation          Code = "VALIDATION_ERROR"
	CodeNotFound            Code = "NOT_FOUND"
	CodeForbidden           Code = "FORBIDDEN"
	CodeInternal            Code = "INTERNAL"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeISBNExists          Code = "ISBN_EXISTS"
	CodeSlugExists          Code = "SLUG_EXISTS"
	CodeNameExists          Code = "NAME_EXISTS"
	CodeItemExists          Code = "ITEM_EXISTS"
	CodeBookNotFound        Code = "BOOK_NOT_FOUND"
	CodeCollectionNotFound  Code = "COLLECTION_NOT_FOUND"
	CodeContentNotFound     Code = "CONTENT_NOT_FOUND"
	CodeSourceNotFound      Code = "SOURCE_NOT_FOUND"
	CodeTargetNotFound      Code = "TARGET_NOT_FOUND"
	CodeSameTag             Code = "SAME_TAG"
	CodeItemNotInCollection Code = "ITEM_NOT_IN_COLLECTION"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeSameTag, CodeItemNotInCollection:
		return http.StatusBadRequest
	case CodeNotFound, CodeBookNotFound, CodeCollectionNotFound, CodeContentNotFound,
		CodeSourceNotFound, CodeTargetNotFound:
		return http.StatusNotFound
	case CodeISBNExists, CodeSlugExists, CodeNameExists, CodeItemExists:
		return http.StatusConflict
	case CodeForbidden:
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// WithMessage returns a copy of the error with a different message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Code:    e.Code,
		Message: msg,
		Details: e.Details,
		cause:   e.cause,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrValidation          = &Error{Code: CodeValidation, Message: "validation error"}
	ErrNotFound            = &Error{Code: CodeNotFound, Message: "not found"}
	ErrForbidden           = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrInternal            = &Error{Code: CodeInternal, Message: "internal error"}
	ErrRateLimited         = &Error{Code: CodeRateLimited, Message: "too many requests"}
	ErrISBNExists          = &Error{Code: CodeISBNExists, Message: "A book with this ISBN already exists"}
	ErrSlugExists          = &Error{Code: CodeSlugExists, Message: "An essay with this title already exists"}
	ErrNameExists          = &Error{Code: CodeNameExists, Message: "A tag with this name already exists"}
	ErrItemExists          = &Error{Code: CodeItemExists, Message: "This item is already in the collection"}
	ErrBookNotFound        = &Error{Code: CodeBookNotFound, Message: "Book not found"}
	ErrCollectionNotFound  = &Error{Code: CodeCollectionNotFound, Message: "Collection not found"}
	ErrContentNotFound     = &Error{Code: CodeContentNotFound, Message: "Content not found"}
	ErrSourceNotFound      = &Error{Code: CodeSourceNotFound, Message: "Source tag not found"}
	ErrTargetNotFound      = &Error{Code: CodeTargetNotFound, Message: "Target tag not found"}
	ErrSameTag             = &Error{Code: CodeSameTag, Message: "Cannot merge a tag with itself"}
	ErrItemNotInCollection = &Error{Code: CodeItemNotInCollection, Message: "Item does not belong to this collection"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbidden creates a forbidden error.
func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
