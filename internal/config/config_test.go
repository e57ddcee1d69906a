// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/buildboot/buildboot/internal/issue"
	"github.com/buildboot/buildboot/pkg/types"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

// isolatedOptions points every lookup location at empty temp directories.
func isolatedOptions(t *testing.T) LoadOptions {
	t.Helper()
	return LoadOptions{
		ConfigDirPath: types.FilesystemPath(t.TempDir()),
		BaseDir:       types.FilesystemPath(t.TempDir()),
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if cfg.Interpreter != "python3" {
		t.Errorf("Interpreter = %q, want python3", cfg.Interpreter)
	}
	if cfg.Log.Level != LogLevelWarn {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if !cfg.Native.Enabled || cfg.Native.Name != "engine" {
		t.Errorf("unexpected native defaults: %+v", cfg.Native)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	loaded, err := NewProvider().Load(context.Background(), isolatedOptions(t))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Path != "" {
		t.Errorf("Path = %q, want empty", loaded.Path)
	}
	if !slices.Equal(loaded.Config.SourcePaths, DefaultConfig().SourcePaths) {
		t.Errorf("SourcePaths = %v, want defaults", loaded.Config.SourcePaths)
	}
}

func TestLoad_LocalFileOverridesUserFile(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	writeConfig(t, string(opts.ConfigDirPath), "config.cue", `interpreter: "python3.10"`)
	local := writeConfig(t, string(opts.BaseDir), LocalConfigFile, `
interpreter: "python3.12"
source_paths: ["src/python", "contrib/python"]
native: enabled: false
`)

	loaded, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Path != local {
		t.Errorf("Path = %q, want %q", loaded.Path, local)
	}
	cfg := loaded.Config
	if cfg.Interpreter != "python3.12" {
		t.Errorf("Interpreter = %q, want python3.12", cfg.Interpreter)
	}
	if !slices.Equal(cfg.SourcePaths, []string{"src/python", "contrib/python"}) {
		t.Errorf("SourcePaths = %v", cfg.SourcePaths)
	}
	if cfg.Native.Enabled {
		t.Error("native.enabled override ignored")
	}
	// Fields absent from the file keep their defaults.
	if cfg.Native.Name != "engine" || cfg.EntryPoint != DefaultConfig().EntryPoint {
		t.Errorf("defaults lost on merge: %+v", cfg)
	}
}

func TestLoad_UserConfigDir(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	user := writeConfig(t, string(opts.ConfigDirPath), "config.cue", `log: level: "debug"`)

	loaded, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Path != user || loaded.Config.Log.Level != LogLevelDebug {
		t.Errorf("Load() = %q level %q, want %q debug", loaded.Path, loaded.Config.Log.Level, user)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	writeConfig(t, string(opts.BaseDir), LocalConfigFile, `interpreter: "ignored"`)
	explicit := writeConfig(t, t.TempDir(), "custom.cue", `pex_path: "dist/tool.pex"`)
	opts.ConfigFilePath = types.FilesystemPath(explicit)

	loaded, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Config.PexPath != "dist/tool.pex" || loaded.Config.Interpreter != "python3" {
		t.Errorf("explicit file not used exclusively: %+v", loaded.Config)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	opts.ConfigFilePath = types.FilesystemPath(filepath.Join(t.TempDir(), "missing.cue"))

	_, err := NewProvider().Load(context.Background(), opts)
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("Load() error = %v, want ErrConfigNotFound", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || len(ae.Suggestions) == 0 {
		t.Errorf("error should be actionable with suggestions: %v", err)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"unknown field", `color: "blue"`, "color"},
		{"wrong type", `source_paths: "src/python"`, "source_paths"},
		{"empty list entry", `requirement_files: ["a.txt", ""]`, "requirement_files[1]"},
		{"bad log level", `log: level: "verbose"`, "log.level"},
		{"bad native name", `native: name: "../engine"`, "native.name"},
		{"syntax error", `interpreter: "python3`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := isolatedOptions(t)
			writeConfig(t, string(opts.BaseDir), LocalConfigFile, tt.content)

			_, err := NewProvider().Load(context.Background(), opts)
			if err == nil {
				t.Fatal("Load() succeeded, want schema error")
			}
			if !strings.Contains(err.Error(), LocalConfigFile) {
				t.Errorf("error should name the file: %v", err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error should mention %q: %v", tt.wantMsg, err)
			}
		})
	}
}

// Environment overrides mutate process state, so these tests do not run in
// parallel.
func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("BUILDBOOT_LOG_LEVEL", "info")
	t.Setenv("BUILDBOOT_INTERPRETER", "pypy3")
	t.Setenv("BUILDBOOT_NATIVE_ENABLED", "false")

	opts := isolatedOptions(t)
	writeConfig(t, string(opts.BaseDir), LocalConfigFile, `interpreter: "python3.12"`)

	loaded, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	cfg := loaded.Config
	if cfg.Log.Level != LogLevelInfo {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Interpreter != "pypy3" {
		t.Errorf("Interpreter = %q, env override should win over the file", cfg.Interpreter)
	}
	if cfg.Native.Enabled {
		t.Error("BUILDBOOT_NATIVE_ENABLED=false ignored")
	}
}

func TestLoad_InvalidEnvironmentOverride(t *testing.T) {
	t.Setenv("BUILDBOOT_LOG_LEVEL", "loud")

	_, err := NewProvider().Load(context.Background(), isolatedOptions(t))
	if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, ErrInvalidLogLevel) {
		t.Fatalf("Load() error = %v, want invalid log level", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, isolatedOptions(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.CacheDir = "/var/cache/buildboot"
	cfg.Native.Version = "2"
	cfg.Native.Target = "linux-arm64"

	opts := isolatedOptions(t)
	writeConfig(t, string(opts.BaseDir), LocalConfigFile, GenerateCUE(cfg))

	loaded, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	got := loaded.Config
	if got.CacheDir != cfg.CacheDir || got.Native.Version != "2" || got.Native.Target != "linux-arm64" {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if !slices.Equal(got.RequirementFiles, cfg.RequirementFiles) {
		t.Errorf("RequirementFiles = %v, want %v", got.RequirementFiles, cfg.RequirementFiles)
	}
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "nested", "config.cue")
	if err := WriteDefault(p, false); err != nil {
		t.Fatalf("WriteDefault() error: %v", err)
	}
	if err := WriteDefault(p, false); err == nil {
		t.Error("WriteDefault() overwrote an existing file without force")
	}
	if err := WriteDefault(p, true); err != nil {
		t.Errorf("WriteDefault(force) error: %v", err)
	}
}

func TestConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	configDirOverride = dir
	t.Cleanup(func() { configDirOverride = "" })

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %q, want %q", got, dir)
	}
}
