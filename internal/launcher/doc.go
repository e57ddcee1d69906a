// SPDX-License-Identifier: MPL-2.0

// Package launcher decides how an invocation is served and hands control to
// the build tool's entry point.
//
// An invocation either runs the prebuilt artifact directly (fast path) or
// performs the full bootstrap: compose extension lists, ensure and activate
// the isolated environment, ensure the native component, then exec the entry
// point with the composed environment. Any failure before exec aborts the
// invocation without launching anything.
package launcher
