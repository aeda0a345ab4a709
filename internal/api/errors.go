package api

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks transport-level failures (connection refused, DNS,
// timeouts). Callers distinguish it from backend-reported failures, which
// arrive as *RequestError.
var ErrUnavailable = errors.New("backend unavailable")

// RequestError is a non-2xx response from the backend. Detail carries the
// backend-supplied message when the body contained one.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("request failed (%d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// StatusOf extracts the HTTP status from err if it is a *RequestError,
// returning 0 otherwise.
func StatusOf(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
