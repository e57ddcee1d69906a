// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/buildboot/buildboot/internal/native"
	"github.com/buildboot/buildboot/internal/runtime"
	"github.com/buildboot/buildboot/internal/venv"
)

// errNativeDisabled is returned when a native command runs with native.enabled false.
var errNativeDisabled = errors.New("native component is disabled in the configuration")

func newNativeCommand(app *App) *cobra.Command {
	nativeCmd := &cobra.Command{
		Use:   "native",
		Short: "Manage the native component",
	}

	var force bool
	ensureCmd := &cobra.Command{
		Use:   "ensure",
		Short: "Build the native component if its sources changed",
		Long: `Build the native component when no artifact exists for the current build
key. The build runs inside the activated isolated environment, which is
created first if needed. Use --force to rebuild regardless of the key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return asExitError(runNativeEnsure(cmd, app, force))
		},
	}
	ensureCmd.Flags().BoolVarP(&force, "force", "f", false, "rebuild even when the artifact is current")

	nativeCmd.AddCommand(ensureCmd)
	return nativeCmd
}

func runNativeEnsure(cmd *cobra.Command, app *App, force bool) error {
	ctx := cmd.Context()
	s, err := app.open(ctx)
	if err != nil {
		return err
	}
	d := s.descriptor()
	if d == nil {
		return fmt.Errorf("%w: %w", errConfig, errNativeDisabled)
	}

	m, err := s.manifest()
	if err != nil {
		return err
	}
	envs := s.envManager()
	h, err := envs.Ensure(ctx, s.envRequest(m))
	if err != nil {
		return err
	}
	act, err := envs.Activate(*h, m.SourcePaths)
	if err != nil {
		return err
	}
	d.Env = activatedEnviron(app.environ(), act)

	a, err := s.nativeBuilder(native.WithForceRebuild(force)).Ensure(ctx, *d)
	if err != nil {
		var buildErr *native.BuildError
		if errors.As(err, &buildErr) && buildErr.Output != "" {
			fmt.Fprint(cmd.ErrOrStderr(), buildErr.Output)
		}
		return err
	}

	w := cmd.OutOrStdout()
	if a.Cached {
		fmt.Fprintln(w, SuccessStyle.Render("native component current"))
	} else {
		fmt.Fprintln(w, SuccessStyle.Render("native component built"))
	}
	fmt.Fprintln(w, field("name", a.Name))
	fmt.Fprintln(w, field("target", a.Target))
	fmt.Fprintln(w, field("key", a.Key))
	fmt.Fprintln(w, field("built", a.BuiltAt.Format(time.RFC3339)))
	fmt.Fprintln(w, field("artifact", PathStyle.Render(a.Path)))
	return nil
}

// activatedEnviron applies act to a copy of environ.
func activatedEnviron(environ []string, act venv.Activation) []string {
	env := runtime.EnvFromSlice(environ)
	act.Apply(env)
	return runtime.EnvToSlice(env)
}
