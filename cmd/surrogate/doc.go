// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the surrogate CLI.
//
// The single root command resolves an application release, composes its
// environment with command-line overrides, refuses test-suite commands,
// optionally checks out the release commit, and hands the reconstructed
// command line to a runtime. Flag parsing stops at the first positional
// argument so the wrapped command keeps its own flags.
package cmd
