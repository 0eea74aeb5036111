package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-success response from the monitoring service. Message
// carries the structured "error" field from the response body when the
// server provided one.
type Error struct {
	// Status is the HTTP status code of the response.
	Status int
	// Message is the server-provided error text, empty if the body had none.
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// IsAuthError reports whether err is a 401 or 403 response. Any such
// response, from any endpoint, invalidates the session.
func IsAuthError(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}
