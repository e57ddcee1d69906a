// SPDX-License-Identifier: MPL-2.0

package types

import "strconv"

// Exit codes reported when the bootstrap itself fails before the entry point
// is launched. Values follow the BSD sysexits convention so wrapper scripts
// can tell the failure kinds apart from codes produced by the launched tool.
const (
	// ExitSuccess is the zero exit code.
	ExitSuccess ExitCode = 0
	// ExitFailure is the generic bootstrap failure code.
	ExitFailure ExitCode = 1
	// ExitComposition reports a malformed extension list (EX_DATAERR).
	ExitComposition ExitCode = 65
	// ExitPath reports a declared path missing at activation time (EX_NOINPUT).
	ExitPath ExitCode = 66
	// ExitEnvironment reports an interpreter or isolated environment failure (EX_UNAVAILABLE).
	ExitEnvironment ExitCode = 69
	// ExitBuild reports a native toolchain failure (EX_SOFTWARE).
	ExitBuild ExitCode = 70
	// ExitConfig reports an unreadable or invalid configuration (EX_CONFIG).
	ExitConfig ExitCode = 78
	// ExitNotExecutable reports a handoff target that exists but cannot be run.
	ExitNotExecutable ExitCode = 126
	// ExitNotFound reports a handoff target that does not exist.
	ExitNotFound ExitCode = 127

	// signalExitBase is added to a signal number when a child dies from a signal.
	signalExitBase = 128
)

// ExitCode represents a process exit status code. The zero value means
// success.
type ExitCode int

// ExitCodeForSignal returns the shell-compatible exit code of a process
// terminated by the given signal number (128+N).
func ExitCodeForSignal(signum int) ExitCode {
	return ExitCode(signalExitBase + signum)
}

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
