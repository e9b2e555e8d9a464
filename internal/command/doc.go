// SPDX-License-Identifier: MPL-2.0

// Package command turns the argument tail of a surrogate invocation into a
// shell command line and classifies it before anything runs.
//
// Build produces a structured Command: either a single bare token passed
// through untouched (so "$SHELL" still expands), or an optional
// process-type template followed by individually quoted arguments.
// Build rejects command lines that would run a test suite.
package command
