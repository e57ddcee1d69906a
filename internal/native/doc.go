// SPDX-License-Identifier: MPL-2.0

// Package native builds and caches the natively compiled engine component.
//
// Artifacts are content addressed: the build key covers the descriptor and
// the contents of every source file, and a cached artifact is reused for as
// long as its recorded key matches. The cache entry for a component lives at
// <cache>/native/<name>/<target>/ and holds the artifact plus a build.toml
// record written last, so an interrupted build never looks current.
package native
