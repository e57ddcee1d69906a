// SPDX-License-Identifier: MPL-2.0

package native

import (
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"

	"github.com/buildboot/buildboot/internal/runtime"

	"mvdan.cc/sh/v3/shell"
)

// Descriptor declares how to build a native component.
type Descriptor struct {
	// Name identifies the component in the cache.
	Name string
	// Target is the platform the artifact is built for.
	Target string
	// SourceDirs are hashed into the build key.
	SourceDirs []string
	// BuildCommand is a shell-style command line, e.g. "cargo build --release".
	BuildCommand string
	// WorkDir is the toolchain's working directory.
	WorkDir string
	// Output is the file the toolchain produces, relative to WorkDir unless
	// absolute.
	Output string
	// Env is the complete toolchain environment; nil inherits.
	Env []string
	// Version salts the build key.
	Version string
}

// DefaultTarget returns the target name of the running platform.
func DefaultTarget() string {
	return goruntime.GOOS + "-" + goruntime.GOARCH
}

// Validate checks that the descriptor names everything a build needs.
func (d Descriptor) Validate() error {
	switch {
	case d.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidDescriptor)
	case d.Target == "":
		return fmt.Errorf("%w: target is required", ErrInvalidDescriptor)
	case d.BuildCommand == "":
		return fmt.Errorf("%w: build command is required", ErrInvalidDescriptor)
	case d.Output == "":
		return fmt.Errorf("%w: output is required", ErrInvalidDescriptor)
	}
	return nil
}

// OutputPath returns the absolute location of the toolchain output.
func (d Descriptor) OutputPath() string {
	if filepath.IsAbs(d.Output) {
		return d.Output
	}
	return filepath.Join(d.WorkDir, d.Output)
}

// Argv parses BuildCommand into program arguments. Parameter expansions are
// resolved against the descriptor environment.
func (d Descriptor) Argv() ([]string, error) {
	lookup := os.LookupEnv
	if d.Env != nil {
		lookup = runtime.LookupFunc(d.Env)
	}
	fields, err := shell.Fields(d.BuildCommand, func(name string) string {
		v, _ := lookup(name)
		return v
	})
	if err != nil {
		return nil, fmt.Errorf("%w: parse build command %q: %w", ErrInvalidDescriptor, d.BuildCommand, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: build command %q is empty", ErrInvalidDescriptor, d.BuildCommand)
	}
	return fields, nil
}
