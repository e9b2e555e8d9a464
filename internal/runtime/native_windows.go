// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runtime

import (
	"errors"
	"os"
	"os/exec"

	"github.com/surrogate/surrogate/pkg/types"
)

// replaceProcess emulates exec(2), which Windows lacks: the shell runs as a
// child with inherited stdio and its exit status is returned.
func replaceProcess(argv0 string, argv, envv []string) (types.ExitCode, error) {
	cmd := exec.Command(argv0, argv[1:]...)
	cmd.Env = envv
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return types.ExitSuccess, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return types.ExitCode(exitErr.ExitCode()).Normalize(), nil
	}
	return types.ExitCannotExecute, err
}
