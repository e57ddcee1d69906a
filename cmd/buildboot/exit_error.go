// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/buildboot/buildboot/internal/config"
	"github.com/buildboot/buildboot/internal/launcher"
	"github.com/buildboot/buildboot/pkg/types"
)

// errConfig marks configuration failures so they map to the config exit code.
var errConfig = errors.New("configuration unavailable")

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps any error surfaced by a command to the process exit code.
func exitCodeFor(err error) types.ExitCode {
	var exitErr *ExitError
	switch {
	case err == nil:
		return types.ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, errConfig), errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrConfigNotFound):
		return types.ExitConfig
	default:
		return launcher.ExitCodeFor(err)
	}
}

// asExitError wraps err with its mapped exit code and fix suggestions.
func asExitError(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: exitCodeFor(err), Err: actionable(err)}
}
