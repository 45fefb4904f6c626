package service

import (
	"errors"
	"fmt"
)

// ErrInvalidID is returned for a non-positive task id. No request is issued.
var ErrInvalidID = errors.New("task id must be a positive integer")

// TransportError is the only failure kind produced by a Service backend:
// network failure, non-success status or a malformed response.
type TransportError struct {
	Op         string // logical operation, e.g. "list tasks"
	Method     string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e == nil {
		return ""
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s %s: status %d: %v", e.Op, e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
