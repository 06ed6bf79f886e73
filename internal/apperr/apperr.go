// Package apperr carries an HTTP status and a stable message key alongside an
// error, so the response layer can render a localized error body without the
// handlers knowing anything about locales.
package apperr

import (
	"fmt"
	"net/http"
)

type Error struct {
	Status    int
	MessageID string
	// Validation maps field name to a message key. Only set on 400 validation failures.
	Validation map[string]string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.MessageID, e.Err)
	}
	return e.MessageID
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(status int, messageID string) *Error {
	return &Error{Status: status, MessageID: messageID}
}

func Wrap(status int, messageID string, err error) *Error {
	return &Error{Status: status, MessageID: messageID, Err: err}
}

// Validation builds the 400 response carrying per-field message keys.
func Validation(fields map[string]string) *Error {
	return &Error{Status: http.StatusBadRequest, MessageID: "validation_failure", Validation: fields}
}

func Unauthorized(messageID string) *Error {
	return New(http.StatusUnauthorized, messageID)
}

func Forbidden(messageID string) *Error {
	return New(http.StatusForbidden, messageID)
}

func NotFound(messageID string) *Error {
	return New(http.StatusNotFound, messageID)
}

func BadRequest(messageID string) *Error {
	return New(http.StatusBadRequest, messageID)
}

func BadGateway(messageID string) *Error {
	return New(http.StatusBadGateway, messageID)
}

func Internal(err error) *Error {
	return Wrap(http.StatusInternalServerError, "internal_failure", err)
}
