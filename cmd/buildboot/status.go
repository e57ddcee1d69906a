// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/buildboot/buildboot/internal/launcher"
	"github.com/buildboot/buildboot/internal/venv"
)

func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the environment and native component",
		Long: `Show which launch mode the current environment selects, which isolated
environment a full bootstrap would use, and whether the native component is
current. Nothing is created or built.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return asExitError(runStatus(cmd, app))
		},
	}
}

func runStatus(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	s, err := app.open(ctx)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, TitleStyle.Render("buildboot status"))
	fmt.Fprintln(w, field("config", configSourceLabel(s.source)))
	fmt.Fprintln(w, field("install root", PathStyle.Render(s.cfg.InstallRoot)))
	fmt.Fprintln(w, field("cache", PathStyle.Render(s.cfg.CacheDir)))
	fmt.Fprintln(w, field("mode", launcher.ModeFor(app.lookupEnv).String()))

	m, err := s.manifest()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("environment"))
	fmt.Fprintln(w, field("interpreter", s.interpreter()))
	h, err := s.envManager().Inspect(ctx, s.envRequest(m))
	if err != nil {
		return err
	}
	printHandle(w, h)

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("native component"))
	d := s.descriptor()
	if d == nil {
		fmt.Fprintln(w, field("state", SubtitleStyle.Render("disabled")))
		return nil
	}
	st, err := s.nativeBuilder().Inspect(ctx, *d)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, field("name", st.Name))
	fmt.Fprintln(w, field("target", st.Target))
	fmt.Fprintln(w, field("key", st.Key))
	switch {
	case st.Current:
		fmt.Fprintln(w, field("state", SuccessStyle.Render("current")))
		fmt.Fprintln(w, field("built", st.BuiltAt.Format(time.RFC3339)))
	case st.RecordedKey != "":
		fmt.Fprintln(w, field("state", WarningStyle.Render("stale")))
		fmt.Fprintln(w, field("recorded key", st.RecordedKey))
	default:
		fmt.Fprintln(w, field("state", WarningStyle.Render("absent")))
	}
	fmt.Fprintln(w, field("artifact", PathStyle.Render(st.Path)))
	return nil
}

func printHandle(w io.Writer, h *venv.Handle) {
	state := WarningStyle.Render(h.State.String())
	if h.State != venv.StateAbsent {
		state = SuccessStyle.Render(h.State.String())
	}
	fmt.Fprintln(w, field("python", h.PythonVersion))
	fmt.Fprintln(w, field("tag", h.VersionTag))
	fmt.Fprintln(w, field("state", state))
	fmt.Fprintln(w, field("root", PathStyle.Render(h.Root)))
}
