// SPDX-License-Identifier: MPL-2.0

// Package config handles launcher configuration using Viper with CUE as the file format.
//
// The configuration file is looked up in order: the path named by
// BUILDBOOT_CONFIG, ./buildboot.cue in the working directory, then
// config.cue in the user configuration directory (~/.config/buildboot on
// Linux, ~/Library/Application Support/buildboot on macOS,
// %APPDATA%\buildboot on Windows). Without a file the defaults apply.
// Every field can be overridden through a BUILDBOOT_-prefixed environment
// variable, e.g. BUILDBOOT_LOG_LEVEL for log.level.
//
// Files are validated against an embedded CUE schema (config_schema.cue)
// before they are merged, so type errors are reported with their CUE path.
package config
