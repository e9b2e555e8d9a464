// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidAppName is the sentinel error wrapped by InvalidAppNameError.
var ErrInvalidAppName = errors.New("invalid app name")

type (
	// AppName identifies a remote application by name or id.
	// A valid name is non-empty, has no whitespace and no path separators,
	// because it is interpolated into API paths.
	AppName string

	// InvalidAppNameError is returned when an AppName value fails validation.
	// It wraps ErrInvalidAppName for errors.Is() compatibility.
	InvalidAppNameError struct {
		Value  AppName
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidAppNameError) Error() string {
	return fmt.Sprintf("invalid app name %q: %s", string(e.Value), e.Reason)
}

// Unwrap returns ErrInvalidAppName so callers can use errors.Is for programmatic detection.
func (e *InvalidAppNameError) Unwrap() error { return ErrInvalidAppName }

// Validate returns an error if the AppName cannot be used as an API path segment.
func (n AppName) Validate() error {
	s := string(n)
	switch {
	case s == "":
		return &InvalidAppNameError{Value: n, Reason: "must not be empty"}
	case strings.ContainsAny(s, `/\`):
		return &InvalidAppNameError{Value: n, Reason: "must not contain path separators"}
	case strings.IndexFunc(s, unicode.IsSpace) >= 0:
		return &InvalidAppNameError{Value: n, Reason: "must not contain whitespace"}
	}
	return nil
}

// String returns the app name.
func (n AppName) String() string { return string(n) }
