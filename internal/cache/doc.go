// SPDX-License-Identifier: MPL-2.0

// Package cache provides the on-disk cache root shared by the environment
// manager and the native builder.
//
// A Dir is injected into each component rather than discovered through
// package-level state. It hands out per-key directories, per-key exclusive
// advisory locks, and an atomic write helper:
//
//	dir := cache.New("/repo/.buildboot")
//	lock, err := dir.Lock(ctx, cache.KindNative, "engine-linux-amd64")
//	if err != nil {
//		return err
//	}
//	defer lock.Release()
//
// Locks are cross-process on Linux and macOS (flock on a zero-byte file under
// <root>/locks) and fall back to an in-process mutex elsewhere.
package cache
