// SPDX-License-Identifier: MPL-2.0

package venv

import (
	"errors"
	"fmt"
)

var (
	// ErrEnvironment is the sentinel error wrapped by EnvironmentError.
	ErrEnvironment = errors.New("isolated environment unavailable")
	// ErrPath is the sentinel error wrapped by PathError.
	ErrPath = errors.New("declared path does not exist")
)

type (
	// EnvironmentError reports a failure to discover the interpreter or to
	// create the isolated environment.
	EnvironmentError struct {
		// Op is the step that failed (e.g. "discover interpreter").
		Op string
		// Resource is the interpreter or environment path involved.
		Resource string
		Err      error
	}

	// PathError reports a declared source path or requirement file that
	// does not exist when the environment is prepared or activated.
	PathError struct {
		// Role describes what the path was declared as ("source path",
		// "requirement file").
		Role string
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *EnvironmentError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap lets errors.Is match ErrEnvironment and the cause.
func (e *EnvironmentError) Unwrap() []error { return []error{ErrEnvironment, e.Err} }

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s does not exist", e.Role, e.Path)
}

// Unwrap lets errors.Is match ErrPath and the cause.
func (e *PathError) Unwrap() []error { return []error{ErrPath, e.Err} }
