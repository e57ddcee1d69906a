// SPDX-License-Identifier: MPL-2.0

// Package venv manages the isolated interpreter environment the build tool
// runs in.
//
// An environment is keyed by a version tag derived from the interpreter's
// full version and the contents of the requirement files it was populated
// from. The first Ensure for a tag creates it under the cache root; every
// later Ensure for the same tag is a no-op. Environments are never removed
// here; see Dir.Remove in package cache for external cleanup.
//
// Completion is recorded by a marker file committed atomically after the
// environment is fully populated. A directory without the marker is treated
// as an interrupted build and recreated from scratch.
//
// All output of the interpreter and package installer is written to the
// manager's diagnostics writer (stderr by default) so that stdout stays
// reserved for the launched tool.
package venv
