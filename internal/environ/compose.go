// SPDX-License-Identifier: MPL-2.0

package environ

import (
	"errors"
	"fmt"
	"strings"
)

// pathSuffix marks variables that describe host search paths (PATH, GEM_PATH,
// LD_LIBRARY_PATH, ...). The remote values are meaningless locally.
const pathSuffix = "PATH"

// ErrInvalidOverride is the sentinel error wrapped by InvalidOverrideError.
var ErrInvalidOverride = errors.New("invalid override")

// InvalidOverrideError is returned for an override token with an empty name.
type InvalidOverrideError struct {
	Token string
}

// Error implements the error interface.
func (e *InvalidOverrideError) Error() string {
	return fmt.Sprintf("override %q has an empty variable name", e.Token)
}

// Unwrap returns ErrInvalidOverride for errors.Is checks.
func (e *InvalidOverrideError) Unwrap() error { return ErrInvalidOverride }

// IsPathLike reports whether key ends with "PATH" (case-sensitive).
func IsPathLike(key string) bool {
	return strings.HasSuffix(key, pathSuffix)
}

// Compose builds the effective environment from the release configuration
// and the argument list.
//
// Path-like keys are removed from a copy of base first. Leading arguments
// containing "=" are then applied in order as overrides (split on the first
// "="; later overrides win), so an override may still introduce a path-like
// key. Consumption stops at the first argument without "="; that argument
// and everything after it are returned as the command. base is not modified.
func Compose(base Env, args []string) (Env, []string, error) {
	env := make(Env, len(base))
	for k, v := range base {
		if IsPathLike(k) {
			continue
		}
		env[k] = v
	}

	i := 0
	for ; i < len(args); i++ {
		key, value, ok := strings.Cut(args[i], "=")
		if !ok {
			break
		}
		if key == "" {
			return nil, nil, &InvalidOverrideError{Token: args[i]}
		}
		env[key] = value
	}

	return env, args[i:], nil
}
