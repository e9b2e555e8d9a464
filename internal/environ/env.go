// SPDX-License-Identifier: MPL-2.0

package environ

import (
	"maps"
	"slices"
	"strings"
)

// Env maps variable names to values.
type Env map[string]string

// FromList parses an os.Environ()-style list. Entries without "=" are ignored.
func FromList(list []string) Env {
	env := make(Env, len(list))
	for _, entry := range list {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// List renders env as KEY=VALUE entries sorted by key.
func (e Env) List() []string {
	list := make([]string, 0, len(e))
	for _, k := range e.Keys() {
		list = append(list, k+"="+e[k])
	}
	return list
}

// Keys returns the variable names in sorted order.
func (e Env) Keys() []string {
	return slices.Sorted(maps.Keys(e))
}

// Clone returns a copy of env. A nil Env clones to an empty one.
func (e Env) Clone() Env {
	out := make(Env, len(e))
	maps.Copy(out, e)
	return out
}

// Merge overlays env onto a host environment list. Host variables that env
// does not name are preserved, the rest are overwritten. The result is sorted.
func Merge(host []string, env Env) []string {
	merged := FromList(host)
	maps.Copy(merged, env)
	return merged.List()
}
