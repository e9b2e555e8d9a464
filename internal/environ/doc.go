// SPDX-License-Identifier: MPL-2.0

// Package environ composes the effective environment of a surrogate run:
// release configuration minus path-like variables, plus KEY=VALUE overrides
// taken from the front of the argument list.
//
// Everything here is pure. The only place that touches the real process
// environment is the runtime package, which feeds os.Environ() through Merge.
package environ
