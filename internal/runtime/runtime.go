// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/surrogate/surrogate/internal/environ"
	"github.com/surrogate/surrogate/pkg/types"
)

// Runtime modes.
const (
	ModeNative  Mode = "native"
	ModeVirtual Mode = "virtual"
)

// ErrUnknownMode is the sentinel error wrapped by UnknownModeError.
var ErrUnknownMode = errors.New("unknown runtime mode")

type (
	// Mode selects a Runtime implementation.
	Mode string

	// UnknownModeError is returned by New for an unrecognized mode.
	UnknownModeError struct {
		Value Mode
	}

	// Invocation is everything a runtime needs to hand off.
	Invocation struct {
		// Command is the shell command line.
		Command string
		// Env is the effective environment, merged over the host environment.
		Env environ.Env
		// Dir is the working directory for the virtual runtime; empty means current.
		Dir string
		// Stdin, Stdout and Stderr are used by runtimes that do not replace
		// the process. Nil means the host's standard streams.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Runtime runs an Invocation.
	//
	// Run returns the command's exit status for runtimes that keep the current
	// process alive. A native runtime that replaces the process never returns
	// on success.
	Runtime interface {
		Name() string
		Run(ctx context.Context, inv Invocation) (types.ExitCode, error)
	}

	// ExecError is returned when the shell could not be started.
	ExecError struct {
		Shell string
		Err   error
	}
)

// Error implements the error interface.
func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown runtime mode %q (expected native or virtual)", string(e.Value))
}

// Unwrap returns ErrUnknownMode for errors.Is checks.
func (e *UnknownModeError) Unwrap() error { return ErrUnknownMode }

// Error implements the error interface.
func (e *ExecError) Error() string {
	return fmt.Sprintf("executing %s: %v", e.Shell, e.Err)
}

// Unwrap returns the underlying OS error.
func (e *ExecError) Unwrap() error { return e.Err }

// Validate returns an error if the mode is not recognized. The zero value is
// treated as native.
func (m Mode) Validate() error {
	switch m {
	case "", ModeNative, ModeVirtual:
		return nil
	default:
		return &UnknownModeError{Value: m}
	}
}

// New returns the Runtime for mode. shell is used by the native runtime.
func New(mode Mode, shell string) (Runtime, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	if mode == ModeVirtual {
		return NewVirtualRuntime(), nil
	}
	return NewNativeRuntime(shell), nil
}
