package errors

import "errors"

// HTTPError is an error carrying the HTTP status it should be served with.
// Delivery layers build these in their mapError translators.
type HTTPError struct {
	StatusCode int
	Message    string
}

// NewHTTPError creates a new HTTPError.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

func (e *HTTPError) Error() string {
	return e.Message
}

// StatusCode extracts the HTTP status from err, or fallback when err is not
// an HTTPError.
func StatusCode(err error, fallback int) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return fallback
}
