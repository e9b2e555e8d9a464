// SPDX-License-Identifier: MPL-2.0

// Package platformapi is a minimal client for the platform API that serves
// release metadata.
//
// The package is organized into three concerns:
//   - client.go: authenticated GET with gzip sniffing and bounded JSON decoding
//   - errors.go: TransportError, DecodeError, NotFoundError and StatusError
//   - resources.go: typed accessors for releases, config vars, slugs and apps
//
// Every call issues exactly one request. Nothing is retried or cached.
package platformapi
