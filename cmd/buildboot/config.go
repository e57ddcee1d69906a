// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buildboot/buildboot/internal/config"
)

// newConfigCommand creates the `buildbootctl config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage buildboot configuration",
		Long: `Manage buildboot configuration.

The configuration file is looked up in order:
  - the path in ` + config.EnvConfigPath + `
  - ` + config.LocalConfigFile + ` in the working directory
  - config.cue in the user configuration directory

Any key can be overridden with a ` + config.EnvPrefix + `_ variable, for example
` + config.EnvPrefix + `_LOG_LEVEL=debug.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return asExitError(showConfig(cmd, app))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.open(cmd.Context())
			if err != nil {
				return asExitError(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(s.cfg))
			return nil
		},
	})

	var force, local bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create a default configuration file",
		Long: `Create a configuration file holding the defaults. Without a path the file
is written to the user configuration directory, or to ` + config.LocalConfigFile + `
in the working directory with --local.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return asExitError(initConfig(cmd, app, args, local, force))
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&local, "local", false, "write "+config.LocalConfigFile+" in the working directory")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return asExitError(showConfigPath(cmd, app))
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	s, err := app.open(cmd.Context())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	cfg := s.cfg

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, field("config file", configSourceLabel(s.source)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, field("install_root", PathStyle.Render(cfg.InstallRoot)))
	fmt.Fprintln(w, field("cache_dir", PathStyle.Render(cfg.CacheDir)))
	fmt.Fprintln(w, field("interpreter", cfg.Interpreter))
	fmt.Fprintln(w, field("entry_point", PathStyle.Render(cfg.EntryPoint)))
	fmt.Fprintln(w, field("pex_path", PathStyle.Render(cfg.PexPath)))
	printList(w, "source_paths", cfg.SourcePaths)
	printList(w, "requirement_files", cfg.RequirementFiles)

	fmt.Fprintln(w)
	fmt.Fprintln(w, SubtitleStyle.Render("native"))
	fmt.Fprintln(w, field("  enabled", fmt.Sprintf("%v", cfg.Native.Enabled)))
	if cfg.Native.Enabled {
		fmt.Fprintln(w, field("  name", cfg.Native.Name))
		fmt.Fprintln(w, field("  target", orDefault(cfg.Native.Target, "host")))
		fmt.Fprintln(w, field("  build_command", cfg.Native.BuildCommand))
		fmt.Fprintln(w, field("  work_dir", PathStyle.Render(cfg.Native.WorkDir)))
		fmt.Fprintln(w, field("  output", cfg.Native.Output))
		fmt.Fprintln(w, field("  version", orDefault(cfg.Native.Version, "(none)")))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, SubtitleStyle.Render("log"))
	fmt.Fprintln(w, field("  level", string(cfg.Log.Level)))
	return nil
}

func printList(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		fmt.Fprintln(w, field(label, SubtitleStyle.Render("(none)")))
		return
	}
	styled := make([]string, len(items))
	for i, it := range items {
		styled[i] = PathStyle.Render(it)
	}
	fmt.Fprintln(w, field(label, strings.Join(styled, ", ")))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func initConfig(cmd *cobra.Command, app *App, args []string, local, force bool) error {
	var path string
	switch {
	case len(args) == 1:
		path = args[0]
	case local:
		wd, err := app.getwd()
		if err != nil {
			return err
		}
		path = filepath.Join(wd, config.LocalConfigFile)
	default:
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt)
	}

	if err := config.WriteDefault(path, force); err != nil {
		return fmt.Errorf("%w: %w", errConfig, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(cmd *cobra.Command, app *App) error {
	s, err := app.open(cmd.Context())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if s.source == "" {
		fmt.Fprintln(w, SubtitleStyle.Render("(no configuration file, using defaults)"))
	} else {
		fmt.Fprintln(w, s.source)
	}
	if dir, err := config.ConfigDir(); err == nil {
		fmt.Fprintf(w, "User config directory: %s\n", dir)
	}
	return nil
}
