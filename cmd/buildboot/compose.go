// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildboot/buildboot/internal/compose"
)

func newComposeCommand(app *App) *cobra.Command {
	var raw bool
	composeCmd := &cobra.Command{
		Use:   "compose",
		Short: "Show the composed source paths and requirement files",
		Long: `Show the source paths and requirement files a full bootstrap would use:
entries from WRAPPER_SRCPATH and WRAPPER_REQUIREMENTS first, then the
configured defaults. Duplicates are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return asExitError(runCompose(cmd, app, raw))
		},
	}
	composeCmd.Flags().BoolVar(&raw, "raw", false, "print the two colon-delimited lists only")
	return composeCmd
}

func runCompose(cmd *cobra.Command, app *App, raw bool) error {
	s, err := app.open(cmd.Context())
	if err != nil {
		return err
	}
	m, err := s.manifest()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if raw {
		fmt.Fprintln(w, compose.Join(m.SourcePaths))
		fmt.Fprintln(w, compose.Join(m.RequirementFiles))
		return nil
	}

	fmt.Fprintln(w, TitleStyle.Render("source paths"))
	for _, p := range m.SourcePaths {
		fmt.Fprintln(w, "  "+PathStyle.Render(p))
	}
	fmt.Fprintln(w, TitleStyle.Render("requirement files"))
	for _, p := range m.RequirementFiles {
		fmt.Fprintln(w, "  "+PathStyle.Render(p))
	}
	return nil
}
