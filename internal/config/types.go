// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/buildboot/buildboot/pkg/types"
)

const (
	// LogLevelDebug enables debug diagnostics and full error chains.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo reports environment and artifact creation.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn is the default level.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError reports failures only.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level of emitted log records.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// NativeConfig describes the native component build.
	NativeConfig struct {
		// Enabled turns the native build step on.
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// Name identifies the component in the cache.
		Name string `json:"name" mapstructure:"name"`
		// Target overrides the platform target; empty means the host platform.
		Target string `json:"target" mapstructure:"target"`
		// SourceDirs are hashed into the build key.
		SourceDirs []string `json:"source_dirs" mapstructure:"source_dirs"`
		// BuildCommand is the toolchain command line.
		BuildCommand string `json:"build_command" mapstructure:"build_command"`
		// WorkDir is the toolchain working directory.
		WorkDir string `json:"work_dir" mapstructure:"work_dir"`
		// Output is the file the toolchain produces, relative to WorkDir.
		Output string `json:"output" mapstructure:"output"`
		// Version salts the build key.
		Version string `json:"version" mapstructure:"version"`
	}

	// LogConfig configures diagnostics.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// Config is the launcher configuration.
	Config struct {
		// InstallRoot is the repository root; relative paths resolve against it.
		InstallRoot string `json:"install_root" mapstructure:"install_root"`
		// CacheDir is the cache root; empty means <install_root>/.buildboot.
		CacheDir string `json:"cache_dir" mapstructure:"cache_dir"`
		// Interpreter is the interpreter selector.
		Interpreter string `json:"interpreter" mapstructure:"interpreter"`
		// EntryPoint is the script handed control on a full bootstrap.
		EntryPoint string `json:"entry_point" mapstructure:"entry_point"`
		// PexPath is the prebuilt artifact used on the fast path.
		PexPath string `json:"pex_path" mapstructure:"pex_path"`
		// SourcePaths are the default source paths.
		SourcePaths []string `json:"source_paths" mapstructure:"source_paths"`
		// RequirementFiles are the default requirement files.
		RequirementFiles []string     `json:"requirement_files" mapstructure:"requirement_files"`
		Native           NativeConfig `json:"native" mapstructure:"native"`
		Log              LogConfig    `json:"log" mapstructure:"log"`
	}
)

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Validate returns an error if the LogLevel is not one of the defined levels.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// SlogLevel converts the level for log/slog handlers. Unknown levels map to warn.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Validate checks the constraints that the CUE schema cannot express for
// values that arrive through environment overrides.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Log.Level.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Interpreter == "" {
		errs = append(errs, errors.New("interpreter: must not be empty"))
	}
	if c.EntryPoint == "" {
		errs = append(errs, errors.New("entry_point: must not be empty"))
	}
	errs = append(errs, validatePaths("source_paths", c.SourcePaths)...)
	errs = append(errs, validatePaths("requirement_files", c.RequirementFiles)...)
	if c.Native.Enabled {
		if c.Native.Name == "" {
			errs = append(errs, errors.New("native.name: required when native.enabled is true"))
		}
		if c.Native.BuildCommand == "" {
			errs = append(errs, errors.New("native.build_command: required when native.enabled is true"))
		}
		if c.Native.Output == "" {
			errs = append(errs, errors.New("native.output: required when native.enabled is true"))
		}
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

func validatePaths(field string, paths []string) []error {
	var errs []error
	for i, p := range paths {
		if err := types.FilesystemPath(p).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s[%d]: %w", field, i, err))
		}
	}
	return errs
}
