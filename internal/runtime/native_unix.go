// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runtime

import (
	"syscall"

	"github.com/surrogate/surrogate/pkg/types"
)

// replaceProcess replaces the current process image. It only returns when
// execve fails.
func replaceProcess(argv0 string, argv, envv []string) (types.ExitCode, error) {
	err := syscall.Exec(argv0, argv, envv)
	return types.ExitCannotExecute, err
}
