// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"maps"
	"os"
	"strings"

	"github.com/buildboot/buildboot/internal/compose"
	"github.com/buildboot/buildboot/internal/native"
	"github.com/buildboot/buildboot/internal/runtime"
	"github.com/buildboot/buildboot/internal/venv"
)

// markerOn is the value of a set boolean marker.
const markerOn = "1"

// pathListSep joins both PYTHONPATH and PANTS_SRCPATH, so the launched
// process can split either with os.pathsep. Extension lists are read with
// compose.Delimiter regardless of platform.
const pathListSep = string(os.PathListSeparator)

// ComposedEnvironment is the complete environment of the launched process.
// It is built once per invocation and never modified afterwards.
type ComposedEnvironment struct {
	vars map[string]string
}

// NewComposedEnvironment builds the launched environment from the caller's environment,
// the activation of the isolated environment, the composed manifest, and the
// native artifact (nil when the native component is disabled).
func NewComposedEnvironment(base []string, act venv.Activation, m compose.Manifest, artifact *native.Artifact) ComposedEnvironment {
	vars := runtime.EnvFromSlice(base)
	act.Apply(vars)

	joined := strings.Join(m.SourcePaths, pathListSep)
	if len(m.SourcePaths) > 0 {
		vars[EnvPythonPath] = runtime.PrependPath(vars, EnvPythonPath, joined, pathListSep)
	}
	vars[EnvSrcPath] = joined
	vars[EnvFromSourcesMarker] = markerOn

	dev, set := vars[EnvDevMode]
	switch {
	case !set || !isFalsy(dev):
		vars[EnvDevMode] = markerOn
	default:
		delete(vars, EnvDevMode)
	}

	if artifact != nil {
		vars[EnvNativeEngine] = artifact.Path
	}
	return ComposedEnvironment{vars: vars}
}

// Get returns the value of key.
func (e ComposedEnvironment) Get(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Map returns a copy of the variables.
func (e ComposedEnvironment) Map() map[string]string {
	return maps.Clone(e.vars)
}

// Environ returns the variables as sorted KEY=VALUE entries.
func (e ComposedEnvironment) Environ() []string {
	return runtime.EnvToSlice(e.vars)
}

// Len returns the number of variables.
func (e ComposedEnvironment) Len() int { return len(e.vars) }

// isFalsy reports whether a dev-mode override disables dev mode.
func isFalsy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "off":
		return true
	}
	return false
}
