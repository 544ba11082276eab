// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the closed set of domain error kinds used across
// the API. Components raise these deliberately; the HTTP boundary maps them
// to status codes and the uniform response envelope. Anything that is not
// one of these kinds is treated as Internal.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a machine-readable error classification.
type Kind string

const (
	KindValidation       Kind = "VALIDATION"
	KindNotFound         Kind = "NOT_FOUND"
	KindUnauthorized     Kind = "UNAUTHORIZED"
	KindInvalidToken     Kind = "INVALID_TOKEN"
	KindDuplicate        Kind = "DUPLICATE"
	KindCategoryNotFound Kind = "CATEGORY_NOT_FOUND"
	KindSlugExhausted    Kind = "SLUG_EXHAUSTED"
	KindUploadRejected   Kind = "UPLOAD_REJECTED"
	KindInternal         Kind = "INTERNAL"
)

// HTTPStatus returns the response status code for a kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindDuplicate, KindCategoryNotFound, KindUploadRejected:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized, KindInvalidToken:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error carrying a kind, a user-facing message, and for
// validation failures the per-field messages.
type Error struct {
	Kind    Kind
	Message string
	// Fields holds field → message pairs for validation errors.
	Fields map[string]string
	// Field names the conflicting column for duplicate-key errors.
	Field string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same kind, so sentinel comparisons like
// errors.Is(err, apperr.ErrNotFound) work regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// HTTPStatus returns the status code for this error's kind.
func (e *Error) HTTPStatus() int { return e.Kind.HTTPStatus() }

// WithCause returns a copy wrapping the underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Fields: e.Fields, Field: e.Field, cause: err}
}

// Sentinels for errors.Is checks.
var (
	ErrValidation       = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUnauthorized     = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrInvalidToken     = &Error{Kind: KindInvalidToken, Message: "invalid token"}
	ErrDuplicate        = &Error{Kind: KindDuplicate, Message: "already exists"}
	ErrCategoryNotFound = &Error{Kind: KindCategoryNotFound, Message: "category not found"}
	ErrSlugExhausted    = &Error{Kind: KindSlugExhausted, Message: "slug space exhausted"}
	ErrUploadRejected   = &Error{Kind: KindUploadRejected, Message: "upload rejected"}
	ErrInternal         = &Error{Kind: KindInternal, Message: "internal error"}
)

// Validation creates a validation error with a single message.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// ValidationFields creates a validation error aggregating field messages.
func ValidationFields(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// NotFound creates a not-found error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// InvalidToken creates an invalid-token error.
func InvalidToken(msg string) *Error {
	return &Error{Kind: KindInvalidToken, Message: msg}
}

// Duplicate creates a duplicate-key error naming the conflicting field.
func Duplicate(field, msg string) *Error {
	return &Error{Kind: KindDuplicate, Message: msg, Field: field}
}

// CategoryNotFound creates the category-resolution failure raised by post writes.
func CategoryNotFound() *Error {
	return &Error{Kind: KindCategoryNotFound, Message: "Category not found"}
}

// SlugExhausted signals the bounded suffix probe ran out of attempts.
func SlugExhausted(base string) *Error {
	return &Error{Kind: KindSlugExhausted, Message: fmt.Sprintf("no free slug for %q", base)}
}

// UploadRejected creates an upload validation error.
func UploadRejected(msg string) *Error {
	return &Error{Kind: KindUploadRejected, Message: msg}
}

// Internal wraps an unexpected error. The message shown to clients is
// generic; the cause is kept for logs.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", cause: err}
}
