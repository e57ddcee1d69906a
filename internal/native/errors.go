// SPDX-License-Identifier: MPL-2.0

package native

import (
	"errors"
	"fmt"
)

var (
	// ErrBuild is the sentinel error wrapped by BuildError.
	ErrBuild = errors.New("native component build failed")
	// ErrInvalidDescriptor is returned when a Descriptor is incomplete.
	ErrInvalidDescriptor = errors.New("invalid native component descriptor")
)

// BuildError reports a native build that could not produce a current
// artifact. Output holds the toolchain's combined output verbatim.
type BuildError struct {
	Name    string
	Target  string
	Command string
	Output  string
	Err     error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("build native component %s for %s: %v", e.Name, e.Target, e.Err)
}

// Unwrap lets errors.Is match ErrBuild and the cause.
func (e *BuildError) Unwrap() []error { return []error{ErrBuild, e.Err} }
