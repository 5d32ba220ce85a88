// Package apperror defines the user-facing error taxonomy. Every error that
// crosses the HTTP boundary is either one of these or gets replaced by a
// generic internal error, so store and provider details never leak to clients.
package apperror

import "net/http"

// Error is a curated, client-safe error with an HTTP status code.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with an explicit status code.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Validation is a client-input error (422).
func Validation(message string) *Error {
	return New(http.StatusUnprocessableEntity, message)
}

// Unauthorized is an authorization failure (401).
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// Forbidden is a missing or malformed credential (403).
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

// NotFound is a missing resource (404).
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Internal is an unexpected processing failure (500).
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}
