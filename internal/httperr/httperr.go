package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an operational error: an expected failure with a status code and a
// message that is safe to show to clients.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Label is "fail" for client errors and "error" for everything else.
func (e *Error) Label() string {
	return label(e.Status)
}

func label(status int) string {
	if status >= 400 && status < 500 {
		return "fail"
	}
	return "error"
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func Wrap(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Validation(err error) *Error {
	return Wrap(http.StatusBadRequest, "Invalid input data", err)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// As returns the operational error wrapped in err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsStatus(err error, status int) bool {
	e, ok := As(err)
	return ok && e.Status == status
}
