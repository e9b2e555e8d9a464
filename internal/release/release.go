// SPDX-License-Identifier: MPL-2.0

package release

import (
	"maps"
	"strconv"
)

// Release is a resolved snapshot of a deployed release. It is built once by
// the Resolver and only read afterwards; accessors return copies.
type Release struct {
	// ID is the API identifier of the release.
	ID string
	// Version is the sequential release number (v1, v2, ...).
	Version int
	// Commit is the source commit the release was built from.
	Commit string
	// SlugID identifies the build artifact. Empty for releases without a build.
	SlugID string

	processTypes map[string]string
	env          map[string]string
}

// ProcessTypes returns a copy of the process-type table (name -> command template).
func (r *Release) ProcessTypes() map[string]string {
	return maps.Clone(nonNil(r.processTypes))
}

// Env returns a copy of the release configuration with every value rendered as a string.
func (r *Release) Env() map[string]string {
	return maps.Clone(nonNil(r.env))
}

// Label renders the release as "v<version>" when the version is known.
func (r *Release) Label() string {
	if r.Version > 0 {
		return "v" + strconv.Itoa(r.Version)
	}
	return r.ID
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
