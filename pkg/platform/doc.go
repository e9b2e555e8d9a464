// SPDX-License-Identifier: MPL-2.0

// Package platform holds the host-specific defaults shared by the
// configuration, runtime and test helper packages.
package platform
