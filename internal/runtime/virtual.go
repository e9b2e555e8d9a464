// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/surrogate/surrogate/internal/builtin"
	"github.com/surrogate/surrogate/internal/environ"
	"github.com/surrogate/surrogate/pkg/types"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRuntime runs the command line in the embedded mvdan/sh interpreter.
// Names in builtins are answered in-process; other programs come from the host.
type VirtualRuntime struct {
	environ  func() []string
	builtins *builtin.Registry
}

// NewVirtualRuntime creates a virtual runtime with the default builtins.
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{environ: os.Environ, builtins: builtin.Default()}
}

// Name returns the runtime name.
func (r *VirtualRuntime) Name() string {
	return string(ModeVirtual)
}

// Run interprets inv.Command with the merged environment and returns its
// exit status. Programs that are not builtins are resolved through the
// merged PATH.
func (r *VirtualRuntime) Run(ctx context.Context, inv Invocation) (types.ExitCode, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(inv.Command), "command")
	if err != nil {
		return types.ExitFailure, fmt.Errorf("failed to parse command: %w", err)
	}

	opts := []interp.RunnerOption{
		interp.Dir(inv.Dir),
		interp.Env(expand.ListEnviron(environ.Merge(r.environ(), inv.Env)...)),
		interp.StdIO(orStdin(inv.Stdin), orWriter(inv.Stdout, os.Stdout), orWriter(inv.Stderr, os.Stderr)),
	}
	if r.builtins != nil {
		opts = append(opts, interp.ExecHandlers(r.builtins.ExecHandler))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return types.ExitFailure, fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return types.ExitCode(exitStatus), nil
		}
		return types.ExitFailure, fmt.Errorf("command execution failed: %w", err)
	}
	return types.ExitSuccess, nil
}

func orStdin(r io.Reader) io.Reader {
	if r == nil {
		return os.Stdin
	}
	return r
}

func orWriter(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
