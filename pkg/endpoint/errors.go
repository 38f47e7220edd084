package endpoint

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMethodNotAllowed is returned by Dispatch when no handler in the chain
// serves the request method.
var ErrMethodNotAllowed = errors.New("method not allowed")

// HTTPError is an error that carries an HTTP status code.
// Handlers return it to choose the status of the error response.
type HTTPError struct {
	Code    int    // HTTP status code (e.g., 400, 403, 404, 500)
	Message string // Message returned to the client
	Err     error  // Optional underlying error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for this error.
func (e *HTTPError) StatusCode() int {
	return e.Code
}

// Error creates an HTTPError with the given status and message.
func Error(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

// Errorf creates an HTTPError with a formatted message.
func Errorf(code int, format string, args ...any) *HTTPError {
	return &HTTPError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// BadRequest creates a 400 Bad Request error.
func BadRequest(err error) *HTTPError {
	msg := "bad request"
	if err != nil {
		msg = err.Error()
	}
	return &HTTPError{Code: http.StatusBadRequest, Message: msg, Err: err}
}

// NotFound creates a 404 Not Found error.
func NotFound(message string) *HTTPError {
	if message == "" {
		message = "not found"
	}
	return &HTTPError{Code: http.StatusNotFound, Message: message}
}

// StatusOf returns the status code an error maps to: the StatusCode of the
// first error in the chain that has one, 405 for ErrMethodNotAllowed and
// 500 otherwise.
func StatusOf(err error) int {
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		if code := sc.StatusCode(); code >= 400 && code < 600 {
			return code
		}
	}
	if errors.Is(err, ErrMethodNotAllowed) {
		return http.StatusMethodNotAllowed
	}
	return http.StatusInternalServerError
}
