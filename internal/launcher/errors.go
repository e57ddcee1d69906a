// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"

	"github.com/buildboot/buildboot/internal/compose"
	"github.com/buildboot/buildboot/internal/native"
	"github.com/buildboot/buildboot/internal/venv"
	"github.com/buildboot/buildboot/pkg/types"
)

// ErrHandoff is the sentinel error wrapped by HandoffError.
var ErrHandoff = errors.New("failed to launch entry point")

// HandoffError reports a target process that could not be started.
type HandoffError struct {
	Mode Mode
	Path string
	Err  error
}

// Error implements the error interface.
func (e *HandoffError) Error() string {
	return fmt.Sprintf("launch %s (%s): %v", e.Path, e.Mode, e.Err)
}

// Unwrap lets errors.Is match ErrHandoff and the cause.
func (e *HandoffError) Unwrap() []error { return []error{ErrHandoff, e.Err} }

// ExitCodeFor maps a bootstrap failure to the launcher's exit code.
func ExitCodeFor(err error) types.ExitCode {
	switch {
	case err == nil:
		return types.ExitSuccess
	case errors.Is(err, context.Canceled):
		return types.ExitCodeForSignal(2)
	case errors.Is(err, compose.ErrComposition):
		return types.ExitComposition
	case errors.Is(err, venv.ErrPath):
		return types.ExitPath
	case errors.Is(err, venv.ErrEnvironment):
		return types.ExitEnvironment
	case errors.Is(err, native.ErrBuild):
		return types.ExitBuild
	case errors.Is(err, native.ErrInvalidDescriptor):
		return types.ExitConfig
	case errors.Is(err, ErrHandoff):
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, exec.ErrNotFound) {
			return types.ExitNotFound
		}
		if errors.Is(err, fs.ErrPermission) {
			return types.ExitNotExecutable
		}
	}
	return types.ExitFailure
}
