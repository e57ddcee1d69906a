// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/buildboot/buildboot/internal/config"
	"github.com/buildboot/buildboot/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// argvGuard is prepended to the launcher argv so cobra routes every argument
// to the root command, including ones named like its built-in commands.
const argvGuard = "--"

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// RunLauncher serves one launcher invocation with os.Args and returns the
// process exit code. It is called by the buildboot main package.
func RunLauncher() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return runLauncher(ctx, NewApp(Dependencies{}), os.Args[1:])
}

func runLauncher(ctx context.Context, app *App, args []string) int {
	root := newLauncherCommand(app)
	root.SetArgs(append([]string{argvGuard}, args...))
	root.SetIn(app.stdin)
	root.SetOut(app.stderr)
	root.SetErr(app.stderr)

	err := root.ExecuteContext(ctx)
	return int(exitCodeFor(err))
}

// newLauncherCommand creates the buildboot root. It owns no flags: every
// argument belongs to the launched process.
func newLauncherCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:                "buildboot [args...]",
		Short:              "Bootstrap the build tool and hand control to it",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && args[0] == argvGuard {
				args = args[1:]
			}
			return launch(cmd.Context(), app, args)
		},
	}
}

// launch bootstraps and hands off. The launched process's exit code is
// returned as an ExitError; bootstrap failures are rendered here.
func launch(ctx context.Context, app *App, args []string) error {
	s, err := app.open(ctx)
	if err != nil {
		err = actionable(err)
		renderError(app.stderr, err, false)
		return err
	}

	code, err := s.launcher().Run(ctx, s.invocation(args))
	if err != nil {
		err = actionable(err)
		renderError(app.stderr, err, s.verbose())
		return &ExitError{Code: code, Err: err}
	}
	if code != types.ExitSuccess {
		return &ExitError{Code: code}
	}
	return nil
}

// RunCtl executes the buildbootctl command tree and returns the exit code.
func RunCtl() int {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		newCtlCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return int(exitErr.Code)
		}
		return int(exitCodeFor(err))
	}
	return 0
}

// newCtlCommand creates the buildbootctl root with its subcommands.
func newCtlCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "buildbootctl",
		Short: "Inspect and maintain buildboot's caches",
		Long: TitleStyle.Render("buildbootctl") + SubtitleStyle.Render(" - Inspect and maintain buildboot's caches") + `

buildbootctl runs the bootstrap steps of the buildboot launcher one at a
time, reports what is cached, and removes cached state.

` + SubtitleStyle.Render("Examples:") + `
  buildbootctl status              Show environment and native component state
  buildbootctl env ensure          Create the isolated environment
  buildbootctl native ensure -f    Rebuild the native component
  buildbootctl compose             Show the composed source paths
  buildbootctl clean --envs        Remove cached environments
  buildbootctl config show         Show the effective configuration`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newStatusCommand(app),
		newEnvCommand(app),
		newNativeCommand(app),
		newComposeCommand(app),
		newCleanCommand(app),
		newConfigCommand(app),
	)
	return root
}

// configSourceLabel describes where a session's configuration came from.
func configSourceLabel(path string) string {
	if path == "" {
		return SubtitleStyle.Render("(defaults, no file found; see " + config.LocalConfigFile + ")")
	}
	return PathStyle.Render(path)
}
