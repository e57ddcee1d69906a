// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"

	"github.com/buildboot/buildboot/pkg/types"
)

type (
	// Executor hands control to a process and returns its exit code.
	Executor interface {
		Exec(ctx context.Context, cmd Command) (types.ExitCode, error)
	}

	// ProcessExecutor spawns the process, relays signals to it, and waits.
	// The context only bounds process start; a running handoff process is
	// stopped through relayed signals, never killed by the launcher.
	ProcessExecutor struct {
		// Relay overrides the set of forwarded signals (defaults per platform).
		Relay []os.Signal
	}
)

// NewProcessExecutor creates a ProcessExecutor with platform default signals.
func NewProcessExecutor() *ProcessExecutor {
	return &ProcessExecutor{Relay: relayedSignals()}
}

// Exec starts c and blocks until it exits. A non-nil error means the process
// could not be started; a process that ran reports only through the exit code.
func (e *ProcessExecutor) Exec(ctx context.Context, c Command) (types.ExitCode, error) {
	if err := ctx.Err(); err != nil {
		return types.ExitFailure, fmt.Errorf("exec %s: %w", c.Path, err)
	}

	cmd := exec.Command(c.Path, c.Args...) //nolint:gosec // Path comes from trusted configuration
	cmd.Env = c.Env
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	// Subscribe before Start so no signal arriving in between is lost.
	sigCh := make(chan os.Signal, 4)
	if len(e.Relay) > 0 {
		signal.Notify(sigCh, e.Relay...)
		defer signal.Stop(sigCh)
	}

	if err := cmd.Start(); err != nil {
		return types.ExitFailure, fmt.Errorf("exec %s: %w", c.Path, err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				if !shouldForward(sig, c.Stdin) {
					slog.Debug("signal delivered by terminal, not forwarding", "signal", sig)
					continue
				}
				if err := cmd.Process.Signal(sig); err != nil {
					slog.Debug("failed to forward signal", "signal", sig, "error", err)
				}
			case <-done:
				return
			}
		}
	}()

	err := cmd.Wait()
	close(done)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitCodeOf(exitErr), nil
		}
		return types.ExitFailure, fmt.Errorf("wait for %s: %w", c.Path, err)
	}
	return types.ExitSuccess, nil
}
