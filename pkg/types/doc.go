// SPDX-License-Identifier: MPL-2.0

// Package types holds small validated value types shared across surrogate
// packages and the CLI layer.
package types
