// SPDX-License-Identifier: MPL-2.0

//go:build unix

package runtime

import (
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/buildboot/buildboot/pkg/types"

	"golang.org/x/term"
)

func relayedSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT}
}

// shouldForward reports whether sig must be sent to the child explicitly.
// Keyboard-generated SIGINT/SIGQUIT already reach the whole foreground
// process group when the child shares our terminal; forwarding them again
// would deliver the interrupt twice.
func shouldForward(sig os.Signal, stdin io.Reader) bool {
	if sig != syscall.SIGINT && sig != syscall.SIGQUIT {
		return true
	}
	f, ok := stdin.(*os.File)
	return !ok || !term.IsTerminal(int(f.Fd()))
}

// exitCodeOf maps a finished process to a shell-compatible exit code.
func exitCodeOf(exitErr *exec.ExitError) types.ExitCode {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return types.ExitCodeForSignal(int(ws.Signal()))
	}
	return types.ExitCode(exitErr.ExitCode())
}
