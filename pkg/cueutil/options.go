// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize bounds CUE input files read from disk.
const DefaultMaxFileSize int64 = 1 << 20

type (
	// Option configures Validate.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

func defaultOptions() options {
	return options{maxFileSize: DefaultMaxFileSize}
}

// WithFilename sets the filename used in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithConcrete requires every field of the unified value to be concrete.
// Leave it off for schemas whose fields are all optional.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}
