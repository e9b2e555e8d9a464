// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"runtime"
	"testing"
)

func TestDefaultShell(t *testing.T) {
	if IsWindows() {
		t.Setenv("ComSpec", `C:\Windows\System32\cmd.exe`)
		if got := DefaultShell(); got != `C:\Windows\System32\cmd.exe` {
			t.Errorf("DefaultShell() = %q, want ComSpec", got)
		}
		t.Setenv("ComSpec", "")
		if got := DefaultShell(); got != "cmd.exe" {
			t.Errorf("DefaultShell() = %q, want cmd.exe", got)
		}
		return
	}

	t.Setenv("ComSpec", "ignored.exe")
	if got := DefaultShell(); got != "/bin/sh" {
		t.Errorf("DefaultShell() = %q, want /bin/sh", got)
	}
}

func TestHomeEnvVar(t *testing.T) {
	t.Parallel()

	want := "HOME"
	if runtime.GOOS == Windows {
		want = "USERPROFILE"
	}
	if got := HomeEnvVar(); got != want {
		t.Errorf("HomeEnvVar() = %q, want %q", got, want)
	}
}
