// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"runtime"
)

// GOOS values the host-specific defaults depend on.
const (
	Windows = "windows"
	Darwin  = "darwin"
)

// IsWindows reports whether the host is Windows.
func IsWindows() bool {
	return runtime.GOOS == Windows
}

// DefaultShell is the shell that interprets a command line when exec.shell
// is not configured: %ComSpec% (falling back to cmd.exe) on Windows and
// /bin/sh elsewhere.
func DefaultShell() string {
	if !IsWindows() {
		return "/bin/sh"
	}
	if comspec := os.Getenv("ComSpec"); comspec != "" {
		return comspec
	}
	return "cmd.exe"
}

// HomeEnvVar names the variable holding the user's home directory.
func HomeEnvVar() string {
	if IsWindows() {
		return "USERPROFILE"
	}
	return "HOME"
}
