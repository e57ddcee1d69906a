// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"
	"slices"
	"strings"
)

// EnvToSlice converts an environment map to KEY=VALUE entries sorted by key.
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		result = append(result, k+"="+env[k])
	}
	return result
}

// EnvFromSlice converts KEY=VALUE entries to a map. Later entries win, which
// matches how execve resolves duplicates in practice. Entries without a
// separator are ignored.
func EnvFromSlice(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, e := range environ {
		k, v, ok := strings.Cut(e, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

// LookupFunc returns a getenv-style lookup over environ.
func LookupFunc(environ []string) func(string) (string, bool) {
	env := EnvFromSlice(environ)
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// PrependPath returns value prepended to the existing list in env[key]
// using sep, or value alone when the key is unset or empty.
func PrependPath(env map[string]string, key, value, sep string) string {
	if cur := env[key]; cur != "" {
		return value + sep + cur
	}
	return value
}
