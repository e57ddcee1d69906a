// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// File system helpers (MustMkdirAll, MustWriteFile, MustReadFile) fail the
// test on error; MustRemoveAll only logs, as cleanup failures are non-fatal.
package testutil
