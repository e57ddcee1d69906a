// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package runtime

import (
	"io"
	"os"
	"os/exec"

	"github.com/buildboot/buildboot/pkg/types"
)

func relayedSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

// shouldForward is false on platforms where the console delivers the
// interrupt to every attached process.
func shouldForward(os.Signal, io.Reader) bool { return false }

func exitCodeOf(exitErr *exec.ExitError) types.ExitCode {
	code := exitErr.ExitCode()
	if code < 0 {
		return types.ExitFailure
	}
	return types.ExitCode(code)
}
