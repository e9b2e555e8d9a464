// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"testing"

	"github.com/surrogate/surrogate/pkg/platform"
)

// SetHomeDir points the platform's home variable (USERPROFILE on Windows,
// HOME elsewhere) at dir and returns a cleanup function restoring it.
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	return MustSetenv(t, platform.HomeEnvVar(), dir)
}
