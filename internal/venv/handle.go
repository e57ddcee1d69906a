// SPDX-License-Identifier: MPL-2.0

package venv

import (
	"os"
	"path/filepath"
	"runtime"

	buildruntime "github.com/buildboot/buildboot/internal/runtime"
	"github.com/buildboot/buildboot/pkg/platform"
)

const (
	// StateAbsent means no complete environment exists for the tag.
	StateAbsent State = iota
	// StateCreated means the environment exists but is not yet activated.
	StateCreated
	// StateActivated means the environment's binaries lead the search path.
	StateActivated
)

const (
	// VirtualEnvVar is set to the environment root on activation.
	VirtualEnvVar = "VIRTUAL_ENV"
	// pythonHomeVar breaks virtualenvs when inherited and is dropped on activation.
	pythonHomeVar = "PYTHONHOME"
	pathVar       = "PATH"
)

type (
	// State is the lifecycle state of an environment.
	State int

	// Handle identifies an isolated environment.
	Handle struct {
		VersionTag string
		Root       string
		// PythonVersion is the full interpreter version the tag was derived from.
		PythonVersion string
		State         State
	}

	// Activation is the set of environment changes that put an environment's
	// binaries first on the resolution path.
	Activation struct {
		Handle Handle
		Set    map[string]string
		Unset  []string
	}
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateActivated:
		return "activated"
	default:
		return "absent"
	}
}

// BinDir returns the directory holding the environment's executables.
func (h Handle) BinDir() string {
	if runtime.GOOS == platform.Windows {
		return filepath.Join(h.Root, "Scripts")
	}
	return filepath.Join(h.Root, "bin")
}

// Interpreter returns the path of the environment's interpreter.
func (h Handle) Interpreter() string {
	if runtime.GOOS == platform.Windows {
		return filepath.Join(h.BinDir(), "python.exe")
	}
	return filepath.Join(h.BinDir(), "python")
}

// Apply writes the activation into env.
func (a Activation) Apply(env map[string]string) {
	for _, k := range a.Unset {
		delete(env, k)
	}
	for k, v := range a.Set {
		if k == pathVar {
			env[k] = buildruntime.PrependPath(env, pathVar, v, string(os.PathListSeparator))
			continue
		}
		env[k] = v
	}
}
