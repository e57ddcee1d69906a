// SPDX-License-Identifier: MPL-2.0

// Package runtime runs external processes for the launcher.
//
// Two kinds of process are started:
//   - toolchain processes (interpreter discovery, environment creation,
//     package installation, native compilation) via ToolRunner; these are
//     bound to the caller's context and killed when it is canceled.
//   - the handoff process (the build tool's entry point or its prebuilt
//     artifact) via Executor; it inherits stdio, receives relayed signals,
//     and its exit code becomes the launcher's exit code.
//
// The handoff is spawn-and-wait rather than an in-place image replacement,
// which keeps behavior identical across platforms while remaining
// exit-code-equivalent to exec(2).
package runtime
