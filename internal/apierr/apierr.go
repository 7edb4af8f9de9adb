package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine codes for the failure taxonomy of the simulation engine.
const (
	CodeState           = "state_error"
	CodeContent         = "content_error"
	CodeStorage         = "storage_error"
	CodeContentProvider = "content_provider_error"
	CodeNotFound        = "not_found"
	CodeInvalidInput    = "invalid_input"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// State rejects an operation attempted against terminal or mismatched state.
// The caller's fault; no mutation has occurred.
func State(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, CodeState, fmt.Errorf(format, args...))
}

// Content flags malformed authored content (dangling step reference, empty
// decision table). A configuration defect, never silently patched.
func Content(format string, args ...interface{}) *Error {
	return New(http.StatusInternalServerError, CodeContent, fmt.Errorf(format, args...))
}

// Storage wraps an event log or profile persistence failure. Propagated,
// never swallowed: losing a write breaks the profile-derivability invariant.
func Storage(err error) *Error {
	return New(http.StatusServiceUnavailable, CodeStorage, err)
}

// ContentProvider wraps a generation backend failure after the template
// fallback has also been exhausted.
func ContentProvider(err error) *Error {
	return New(http.StatusBadGateway, CodeContentProvider, err)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func InvalidInput(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodeInvalidInput, fmt.Errorf(format, args...))
}

// StatusOf maps any error to an HTTP status, defaulting to 500.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the machine code of an error, empty for plain errors.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
