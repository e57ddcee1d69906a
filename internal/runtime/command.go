// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/buildboot/buildboot/pkg/types"
)

// ErrToolFailed is the sentinel error wrapped by ToolError.
var ErrToolFailed = errors.New("tool exited with non-zero status")

type (
	// Command describes a process to start. Env is the complete environment;
	// a nil Env inherits the launcher's environment.
	Command struct {
		Path   string
		Args   []string
		Env    []string
		Dir    string
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// ToolRunner runs a toolchain process to completion.
	ToolRunner interface {
		RunTool(ctx context.Context, cmd Command) error
	}

	// ToolError reports a toolchain process that exited with a non-zero code.
	ToolError struct {
		Command  string
		ExitCode types.ExitCode
	}

	// ExecToolRunner is the ToolRunner backed by os/exec.
	ExecToolRunner struct{}
)

// Error implements the error interface.
func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
}

// Unwrap returns ErrToolFailed for errors.Is() compatibility.
func (e *ToolError) Unwrap() error { return ErrToolFailed }

// String renders the command line for diagnostics.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// RunTool starts cmd and waits for it. The process is killed when ctx is
// canceled.
func (ExecToolRunner) RunTool(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Env = c.Env
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", c.String(), ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ToolError{Command: c.String(), ExitCode: exitCodeOf(exitErr)}
		}
		return fmt.Errorf("failed to run %s: %w", c.String(), err)
	}
	return nil
}
