// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Helpers cover environment isolation (MustSetenv, MustUnsetenv, ClearEnv,
// SetHomeDir) and fixture files (MustWriteFile).
package testutil
