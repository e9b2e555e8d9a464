// SPDX-License-Identifier: MPL-2.0

// Package runtime hands control to the reconstructed command.
//
// Two runtime implementations are available:
//   - native: replaces the current process with the host shell running the
//     command line (exec(2)); on Windows the shell runs as a child instead
//   - virtual: runs the command line in the embedded shell interpreter
//     (mvdan/sh) and reports its exit status
//
// Both merge the effective environment over the current process environment
// exactly once, immediately before handing off.
package runtime
