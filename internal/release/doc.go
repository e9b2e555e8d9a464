// SPDX-License-Identifier: MPL-2.0

// Package release resolves an application release into an immutable
// snapshot: identity, commit, process-type table and configuration.
//
// Resolution is one metadata fetch followed by two concurrent fetches
// (configuration variables and the slug's process types) that are joined
// before Resolve returns.
package release
