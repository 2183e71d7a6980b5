package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoSession is returned before any request is made when an authenticated
// call is attempted without a bearer token.
var ErrNoSession = errors.New("you need to be logged in")

// TransportError wraps failures to reach the backend at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: API request failed: %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: API request failed: %d - %s", e.Op, e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 answer from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// UserMessage maps err onto the text shown to the shopper. fallback is used
// for application errors whose body carried no message.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNoSession) {
		return "You need to be logged in."
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return "Network error. Please try again."
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
