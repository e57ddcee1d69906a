// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEnvCommand(app *App) *cobra.Command {
	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Manage the isolated interpreter environment",
	}
	envCmd.AddCommand(&cobra.Command{
		Use:   "ensure",
		Short: "Create the isolated environment if it does not exist",
		Long: `Create the isolated environment a full bootstrap would use, honoring PY
and WRAPPER_REQUIREMENTS. An existing complete environment is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return asExitError(runEnvEnsure(cmd, app))
		},
	})
	return envCmd
}

func runEnvEnsure(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	s, err := app.open(ctx)
	if err != nil {
		return err
	}
	m, err := s.manifest()
	if err != nil {
		return err
	}
	h, err := s.envManager().Ensure(ctx, s.envRequest(m))
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, SuccessStyle.Render("environment ready"))
	printHandle(w, h)
	return nil
}
