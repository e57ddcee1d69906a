// SPDX-License-Identifier: MPL-2.0

package launcher

// Environment variables read from the caller's environment.
const (
	// EnvFromPex selects the fast path when set to a non-empty value.
	EnvFromPex = "RUN_PANTS_FROM_PEX"
	// EnvInterpreter overrides the configured interpreter selector.
	EnvInterpreter = "PY"
	// EnvWrapperSrcPath lists extension source paths.
	EnvWrapperSrcPath = "WRAPPER_SRCPATH"
	// EnvWrapperRequirements lists extension requirement files.
	EnvWrapperRequirements = "WRAPPER_REQUIREMENTS"
	// EnvDevMode is both the dev-mode override read from the caller and the
	// marker set for the launched process.
	EnvDevMode = "PANTS_DEV"
)

// Environment variables set for the launched process.
const (
	EnvPythonPath = "PYTHONPATH"
	// EnvSrcPath carries the composed source paths.
	EnvSrcPath = "PANTS_SRCPATH"
	// EnvFromSourcesMarker is set to "1" on every from-sources launch, even
	// when the composed source path list is empty.
	EnvFromSourcesMarker = "RUNNING_PANTS_FROM_SOURCES"
	// EnvNativeEngine is the path of the native artifact.
	EnvNativeEngine = "BUILDBOOT_NATIVE_ENGINE"
)

const (
	// ModeFromSources runs the full bootstrap.
	ModeFromSources Mode = iota
	// ModeFromPex runs the prebuilt artifact directly.
	ModeFromPex
)

// Mode is how an invocation is served.
type Mode int

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeFromPex {
		return "from-pex"
	}
	return "from-sources"
}

// ModeFor reads the fast-path toggle from lookup.
func ModeFor(lookup func(string) (string, bool)) Mode {
	if v, _ := lookup(EnvFromPex); v != "" {
		return ModeFromPex
	}
	return ModeFromSources
}
