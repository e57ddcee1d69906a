// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI for the buildboot launcher.
//
// Two roots share one composition root (App): the launcher root, which
// forwards every argument to the launched tool untouched, and the
// buildbootctl root, which exposes maintenance commands for inspecting and
// preparing the environment and the native component.
package cmd
