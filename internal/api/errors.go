package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized signals the bearer credential was rejected (HTTP 401).
// The gateway reports it and nothing more; tearing the session down is the
// session service's job.
var ErrUnauthorized = errors.New("unauthorized")

// RequestError is any other non-2xx server response. Detail carries the
// server-provided message when the body contained one.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("request failed: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("request failed: status %d", e.Status)
}

// NetworkError is a transport-level failure: no HTTP response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
