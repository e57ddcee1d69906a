// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

type (
	// FilesystemPath represents an absolute or relative filesystem path.
	// A valid path must be non-empty, not whitespace-only, and free of NUL
	// and line-break characters, which no path list can carry.
	// The zero value ("") is invalid.
	FilesystemPath string

	// InvalidFilesystemPathError is returned when a FilesystemPath value is
	// empty, whitespace-only, or contains a control character.
	InvalidFilesystemPathError struct {
		Value  FilesystemPath
		Reason string
	}
)

// String returns the string representation of the FilesystemPath.
func (p FilesystemPath) String() string { return string(p) }

// Validate returns an error if the FilesystemPath is not usable as a path.
func (p FilesystemPath) Validate() error {
	s := string(p)
	switch {
	case strings.TrimSpace(s) == "":
		return &InvalidFilesystemPathError{Value: p, Reason: "must be non-empty"}
	case strings.ContainsRune(s, 0):
		return &InvalidFilesystemPathError{Value: p, Reason: "must not contain NUL"}
	case strings.ContainsAny(s, "\r\n"):
		return &InvalidFilesystemPathError{Value: p, Reason: "must not contain line breaks"}
	}
	return nil
}

// Error implements the error interface for InvalidFilesystemPathError.
func (e *InvalidFilesystemPathError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "must be non-empty"
	}
	return fmt.Sprintf("invalid filesystem path %q: %s", e.Value, reason)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }
