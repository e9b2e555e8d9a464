// SPDX-License-Identifier: MPL-2.0

package platformapi

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is the sentinel error wrapped by TransportError.
	ErrTransport = errors.New("transport failure")
	// ErrDecode is the sentinel error wrapped by DecodeError.
	ErrDecode = errors.New("malformed response")
	// ErrNotFound is the sentinel error wrapped by NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrStatus is the sentinel error wrapped by StatusError.
	ErrStatus = errors.New("unexpected status")
)

type (
	// TransportError is returned when the request could not be completed:
	// connection failures, timeouts and truncated bodies.
	TransportError struct {
		Path string
		Err  error
	}

	// DecodeError is returned when a body is neither JSON nor gzip-compressed JSON.
	DecodeError struct {
		Path string
		Err  error
	}

	// NotFoundError is returned when the API answers 404 for a resource.
	NotFoundError struct {
		Path    string
		Message string
	}

	// StatusError is returned for any other non-2xx answer.
	StatusError struct {
		Path       string
		StatusCode int
		ID         string // API error id, e.g. "unauthorized"
		Message    string
	}
)

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s: %v", e.Path, e.Err)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response from %s: %v", e.Path, e.Err)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("%s: not found", e.Path)
}

// Unwrap returns ErrNotFound for errors.Is checks.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Path, e.StatusCode)
}

// Unwrap returns ErrStatus for errors.Is checks.
func (e *StatusError) Unwrap() error { return ErrStatus }
