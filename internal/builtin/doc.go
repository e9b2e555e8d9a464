// SPDX-License-Identifier: MPL-2.0

// Package builtin provides the small set of utilities the virtual runtime
// answers itself, so commands such as env and cat work on hosts without a
// POSIX userland. Names that are not registered fall through to the host.
package builtin
