package recipeshare

import (
	"errors"
	"fmt"
	"strings"
)

// APIError is an application-level failure the backend signals inside a 200
// response: a `success: false` envelope or an empty login array. It is
// distinct from transport and decode failures, which surface as wrapped
// errors; callers show APIError messages inline rather than treating them
// as faults.
type APIError struct {
	Op      string
	Message string
}

// Error implements error.
func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "operation failed"
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// UserMessage returns the backend's message suitable for inline display.
func (e *APIError) UserMessage() string {
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return "Something went wrong. Please try again."
}

// IsAPIError reports whether err is an application-level failure and
// returns it when so.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
