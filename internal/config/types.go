// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// RuntimeNative replaces the process with the host shell.
	// Defined locally to avoid coupling config to internal/runtime.
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual runs the command in the embedded mvdan/sh interpreter.
	RuntimeVirtual RuntimeMode = "virtual"
)

var (
	// ErrInvalidConfigRuntimeMode is returned when a config RuntimeMode value is not recognized.
	ErrInvalidConfigRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidAPIURL is the sentinel error wrapped by InvalidAPIURLError.
	ErrInvalidAPIURL = errors.New("invalid API URL")
	// ErrInvalidTimeout is the sentinel error wrapped by InvalidTimeoutError.
	ErrInvalidTimeout = errors.New("invalid timeout")
	// ErrInvalidGitConfig is the sentinel error wrapped by InvalidGitConfigError.
	ErrInvalidGitConfig = errors.New("invalid git config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// RuntimeMode specifies how the reconstructed command is executed.
	RuntimeMode string

	// InvalidConfigRuntimeModeError is returned when a config RuntimeMode value is not recognized.
	// It wraps ErrInvalidConfigRuntimeMode for errors.Is() compatibility.
	InvalidConfigRuntimeModeError struct {
		Value RuntimeMode
	}

	// InvalidAPIURLError is returned when api.url is not an absolute http(s) URL.
	InvalidAPIURLError struct {
		Value string
	}

	// InvalidTimeoutError is returned when api.timeout is not positive.
	InvalidTimeoutError struct {
		Value time.Duration
	}

	// InvalidGitConfigError is returned when a git setting is blank.
	InvalidGitConfigError struct {
		Field string
	}

	// InvalidConfigError is returned when one or more config fields are invalid.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// API configures the platform API client
		API APIConfig `json:"api" mapstructure:"api"`
		// Git configures checkout and app detection
		Git GitConfig `json:"git" mapstructure:"git"`
		// Exec configures how the command is run
		Exec ExecConfig `json:"exec" mapstructure:"exec"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// APIConfig configures the platform API client.
	APIConfig struct {
		URL     string        `json:"url" mapstructure:"url"`
		Token   string        `json:"token" mapstructure:"token"`
		Accept  string        `json:"accept" mapstructure:"accept"`
		Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	}

	// GitConfig configures the git binary and the remote used to infer the app.
	GitConfig struct {
		Binary string `json:"binary" mapstructure:"binary"`
		Remote string `json:"remote" mapstructure:"remote"`
	}

	// ExecConfig configures the runtime.
	ExecConfig struct {
		// Shell interprets the command line in native mode
		Shell string `json:"shell" mapstructure:"shell"`
		// Runtime selects native or virtual execution
		Runtime RuntimeMode `json:"runtime" mapstructure:"runtime"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging and full error chains
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the RuntimeMode.
func (m RuntimeMode) String() string { return string(m) }

// IsValid returns whether the RuntimeMode is one of the defined modes.
func (m RuntimeMode) IsValid() (bool, []error) {
	switch m {
	case RuntimeNative, RuntimeVirtual:
		return true, nil
	default:
		return false, []error{&InvalidConfigRuntimeModeError{Value: m}}
	}
}

// Error implements the error interface.
func (e *InvalidConfigRuntimeModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (valid: native, virtual)", e.Value)
}

// Unwrap returns ErrInvalidConfigRuntimeMode for errors.Is() compatibility.
func (e *InvalidConfigRuntimeModeError) Unwrap() error { return ErrInvalidConfigRuntimeMode }

// Error implements the error interface.
func (e *InvalidAPIURLError) Error() string {
	return fmt.Sprintf("invalid api.url %q: must be an absolute http or https URL", e.Value)
}

// Unwrap returns ErrInvalidAPIURL for errors.Is() compatibility.
func (e *InvalidAPIURLError) Unwrap() error { return ErrInvalidAPIURL }

// Error implements the error interface.
func (e *InvalidTimeoutError) Error() string {
	return fmt.Sprintf("invalid api.timeout %s: must be positive", e.Value)
}

// Unwrap returns ErrInvalidTimeout for errors.Is() compatibility.
func (e *InvalidTimeoutError) Unwrap() error { return ErrInvalidTimeout }

// Error implements the error interface.
func (e *InvalidGitConfigError) Error() string {
	return fmt.Sprintf("invalid git.%s: must not be empty", e.Field)
}

// Unwrap returns ErrInvalidGitConfig for errors.Is() compatibility.
func (e *InvalidGitConfigError) Unwrap() error { return ErrInvalidGitConfig }

// IsValid returns whether the APIConfig has valid fields.
// The token is not checked here; a missing token is reported when the
// API is first needed.
func (c APIConfig) IsValid() (bool, []error) {
	var errs []error
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, &InvalidAPIURLError{Value: c.URL})
	}
	if c.Timeout <= 0 {
		errs = append(errs, &InvalidTimeoutError{Value: c.Timeout})
	}
	return len(errs) == 0, errs
}

// IsValid returns whether the GitConfig has valid fields.
func (c GitConfig) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Binary) == "" {
		errs = append(errs, &InvalidGitConfigError{Field: "binary"})
	}
	if strings.TrimSpace(c.Remote) == "" {
		errs = append(errs, &InvalidGitConfigError{Field: "remote"})
	}
	return len(errs) == 0, errs
}

// IsValid returns whether the Config has valid fields.
// UI has only bool fields and needs no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.API.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Git.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Exec.Runtime.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and every field error, so errors.Is matches
// both the aggregate and the specific field sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
