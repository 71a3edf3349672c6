package httperr

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// AppError is a failure with an HTTP status. Operational errors are
// expected conditions whose message is safe to show to clients.
type AppError struct {
	StatusCode  int
	Message     string
	Operational bool
	Err         error

	pcs []uintptr
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Status is "fail" for client errors and "error" for everything else.
func (e *AppError) Status() string {
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		return "fail"
	}
	return "error"
}

// Stack renders the call stack captured when the error was created.
func (e *AppError) Stack() string {
	if len(e.pcs) == 0 {
		return ""
	}
	var b strings.Builder
	frames := runtime.CallersFrames(e.pcs)
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return b.String()
}

func New(status int, message string) *AppError {
	return &AppError{StatusCode: status, Message: message, Operational: true, pcs: callers()}
}

func Wrap(status int, message string, err error) *AppError {
	return &AppError{StatusCode: status, Message: message, Operational: true, Err: err, pcs: callers()}
}

func BadRequest(message string) *AppError      { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *AppError    { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *AppError       { return New(http.StatusForbidden, message) }
func NotFound(message string) *AppError        { return New(http.StatusNotFound, message) }
func Conflict(message string) *AppError        { return New(http.StatusConflict, message) }
func TooManyRequests(message string) *AppError { return New(http.StatusTooManyRequests, message) }

// InvalidID reports a path identifier that cannot be parsed.
func InvalidID(value string, err error) *AppError {
	return Wrap(http.StatusBadRequest, fmt.Sprintf("Invalid id: %s", value), err)
}

// Internal marks an unexpected failure; its message is never shown in production.
func Internal(err error) *AppError {
	return &AppError{
		StatusCode: http.StatusInternalServerError,
		Message:    "Something went very wrong!",
		Err:        err,
		pcs:        callers(),
	}
}

func callers() []uintptr {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	return pcs[:n]
}
