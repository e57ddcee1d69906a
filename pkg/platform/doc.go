// SPDX-License-Identifier: MPL-2.0

// Package platform names the operating systems with platform-specific
// behavior, such as where an isolated environment keeps its executables
// and where the user configuration directory lives.
package platform
