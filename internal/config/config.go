// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/buildboot/buildboot/internal/issue"
	"github.com/buildboot/buildboot/pkg/platform"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "buildboot"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFile is looked up in the working directory.
	LocalConfigFile = AppName + "." + ConfigFileExt
	// EnvConfigPath names an explicit config file.
	EnvConfigPath = "BUILDBOOT_CONFIG"
	// EnvPrefix prefixes environment overrides of config keys.
	EnvPrefix = "BUILDBOOT"
)

//go:embed config_schema.cue
var configSchema string

// configDirOverride replaces the platform lookup in package tests.
var configDirOverride string

// ConfigDir returns the buildboot configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DefaultConfig returns the configuration used when no file sets a field.
func DefaultConfig() *Config {
	return &Config{
		InstallRoot:      ".",
		Interpreter:      "python3",
		EntryPoint:       "src/python/pants/bin/pants_loader.py",
		PexPath:          "pants.pex",
		SourcePaths:      []string{"src/python"},
		RequirementFiles: []string{"3rdparty/python/requirements.txt"},
		Native: NativeConfig{
			Enabled:      true,
			Name:         "engine",
			SourceDirs:   []string{"src/rust/engine"},
			BuildCommand: "cargo build --release",
			WorkDir:      "src/rust/engine",
			Output:       "target/release/libengine.so",
		},
		Log: LogConfig{Level: LogLevelWarn},
	}
}

// locate resolves the config file to load, or "" for defaults only.
func locate(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(string(opts.ConfigFilePath)) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(string(opts.ConfigFilePath)).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Unset " + EnvConfigPath + " to fall back to the default lookup").
				Wrap(ErrConfigNotFound).
				BuildError()
		}
		return string(opts.ConfigFilePath), nil
	}

	local := LocalConfigFile
	if opts.BaseDir != "" {
		local = filepath.Join(string(opts.BaseDir), LocalConfigFile)
	}
	if fileExists(local) {
		return local, nil
	}

	cfgDir, err := configDirWithOverride(string(opts.ConfigDirPath))
	if err != nil {
		return "", err
	}
	if userPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(userPath) {
		return userPath, nil
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := locate(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'buildbootctl config show' to see the effective configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check " + EnvPrefix + "_* environment overrides for typos").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// setDefaults registers every key so environment overrides are honored
// for all of them.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("install_root", d.InstallRoot)
	v.SetDefault("cache_dir", d.CacheDir)
	v.SetDefault("interpreter", d.Interpreter)
	v.SetDefault("entry_point", d.EntryPoint)
	v.SetDefault("pex_path", d.PexPath)
	v.SetDefault("source_paths", d.SourcePaths)
	v.SetDefault("requirement_files", d.RequirementFiles)
	v.SetDefault("native.enabled", d.Native.Enabled)
	v.SetDefault("native.name", d.Native.Name)
	v.SetDefault("native.target", d.Native.Target)
	v.SetDefault("native.source_dirs", d.Native.SourceDirs)
	v.SetDefault("native.build_command", d.Native.BuildCommand)
	v.SetDefault("native.work_dir", d.Native.WorkDir)
	v.SetDefault("native.output", d.Native.Output)
	v.SetDefault("native.version", d.Native.Version)
	v.SetDefault("log.level", string(d.Log.Level))
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// WriteDefault writes the default configuration to path. An existing file is
// only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// buildboot configuration file\n\n")

	fmt.Fprintf(&sb, "install_root: %q\n", cfg.InstallRoot)
	if cfg.CacheDir != "" {
		fmt.Fprintf(&sb, "cache_dir: %q\n", cfg.CacheDir)
	}
	fmt.Fprintf(&sb, "interpreter: %q\n", cfg.Interpreter)
	fmt.Fprintf(&sb, "entry_point: %q\n", cfg.EntryPoint)
	fmt.Fprintf(&sb, "pex_path: %q\n", cfg.PexPath)
	writeCUEList(&sb, "", "source_paths", cfg.SourcePaths)
	writeCUEList(&sb, "", "requirement_files", cfg.RequirementFiles)

	sb.WriteString("\nnative: {\n")
	fmt.Fprintf(&sb, "\tenabled: %v\n", cfg.Native.Enabled)
	fmt.Fprintf(&sb, "\tname: %q\n", cfg.Native.Name)
	if cfg.Native.Target != "" {
		fmt.Fprintf(&sb, "\ttarget: %q\n", cfg.Native.Target)
	}
	writeCUEList(&sb, "\t", "source_dirs", cfg.Native.SourceDirs)
	fmt.Fprintf(&sb, "\tbuild_command: %q\n", cfg.Native.BuildCommand)
	fmt.Fprintf(&sb, "\twork_dir: %q\n", cfg.Native.WorkDir)
	fmt.Fprintf(&sb, "\toutput: %q\n", cfg.Native.Output)
	if cfg.Native.Version != "" {
		fmt.Fprintf(&sb, "\tversion: %q\n", cfg.Native.Version)
	}
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	sb.WriteString("}\n")

	return sb.String()
}

func writeCUEList(sb *strings.Builder, indent, field string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(sb, "%s%s: []\n", indent, field)
		return
	}
	fmt.Fprintf(sb, "%s%s: [\n", indent, field)
	for _, it := range items {
		fmt.Fprintf(sb, "%s\t%q,\n", indent, it)
	}
	fmt.Fprintf(sb, "%s]\n", indent)
}
