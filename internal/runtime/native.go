// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/surrogate/surrogate/internal/environ"
	"github.com/surrogate/surrogate/pkg/platform"
	"github.com/surrogate/surrogate/pkg/types"
)

// execFunc starts argv0 with argv and envv. On platforms with exec(2) it
// only returns on failure.
type execFunc func(argv0 string, argv, envv []string) (types.ExitCode, error)

// NativeRuntime hands the command line to the host shell.
type NativeRuntime struct {
	// Shell is the shell used to interpret the command line.
	Shell string

	environ  func() []string
	lookPath func(string) (string, error)
	exec     execFunc
}

// NewNativeRuntime creates a native runtime. An empty shell selects the
// platform default.
func NewNativeRuntime(shell string) *NativeRuntime {
	if shell == "" {
		shell = platform.DefaultShell()
	}
	return &NativeRuntime{
		Shell:    shell,
		environ:  os.Environ,
		lookPath: exec.LookPath,
		exec:     replaceProcess,
	}
}

// Name returns the runtime name.
func (r *NativeRuntime) Name() string {
	return string(ModeNative)
}

// Run merges inv.Env into the current process environment and replaces the
// process with `<shell> -c <command>`.
func (r *NativeRuntime) Run(_ context.Context, inv Invocation) (types.ExitCode, error) {
	shell, err := r.lookPath(r.Shell)
	if err != nil {
		code := types.ExitCannotExecute
		if errors.Is(err, exec.ErrNotFound) {
			code = types.ExitCommandNotFound
		}
		return code, &ExecError{Shell: r.Shell, Err: err}
	}

	argv := []string{shell, shellFlag(shell), inv.Command}
	envv := environ.Merge(r.environ(), inv.Env)

	code, err := r.exec(shell, argv, envv)
	if err != nil {
		return code, &ExecError{Shell: shell, Err: err}
	}
	return code, nil
}

// shellFlag returns the flag that makes shell read a command string.
func shellFlag(shell string) string {
	base := shell
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	if base == "cmd" {
		return "/C"
	}
	return "-c"
}
