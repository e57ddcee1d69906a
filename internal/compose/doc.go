// SPDX-License-Identifier: MPL-2.0

// Package compose merges source paths and requirement files declared by
// wrapping projects with the launcher's own defaults.
//
// Wrapping projects extend the build tool without forking it by exporting
// colon-delimited lists (for example WRAPPER_SRCPATH and
// WRAPPER_REQUIREMENTS). Compose places those entries ahead of the defaults,
// keeping the caller's declared order and the defaults' internal order:
//
//	m, err := compose.Compose(
//		[]string{"/core/src"}, []string{"/core/requirements.txt"},
//		os.Getenv("WRAPPER_SRCPATH"), os.Getenv("WRAPPER_REQUIREMENTS"),
//	)
//	// with WRAPPER_SRCPATH="/ext/a:/ext/b":
//	// m.SourcePaths == []string{"/ext/a", "/ext/b", "/core/src"}
//
// Everything here is pure: no file system access, no environment lookups.
// Paths are not checked for existence; that happens when the isolated
// environment is activated.
package compose
