// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/buildboot/buildboot/internal/cache"
)

func newCleanCommand(app *App) *cobra.Command {
	var envs, nativeArtifacts bool
	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached environments and native artifacts",
		Long: `Remove cached state. Without flags both isolated environments and native
artifacts are removed; --envs or --native restricts the removal.

No launcher should be running while the cache is cleaned.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kinds := cleanKinds(envs, nativeArtifacts)
			return asExitError(runClean(cmd, app, kinds))
		},
	}
	cleanCmd.Flags().BoolVar(&envs, "envs", false, "remove isolated environments")
	cleanCmd.Flags().BoolVar(&nativeArtifacts, "native", false, "remove native artifacts")
	return cleanCmd
}

// cleanKinds selects the cache namespaces to remove; no selection means all.
func cleanKinds(envs, nativeArtifacts bool) []cache.Kind {
	if !envs && !nativeArtifacts {
		return []cache.Kind{cache.KindVenv, cache.KindNative}
	}
	var kinds []cache.Kind
	if envs {
		kinds = append(kinds, cache.KindVenv)
	}
	if nativeArtifacts {
		kinds = append(kinds, cache.KindNative)
	}
	return kinds
}

func runClean(cmd *cobra.Command, app *App, kinds []cache.Kind) error {
	s, err := app.open(cmd.Context())
	if err != nil {
		return err
	}
	for _, k := range kinds {
		slog.Debug("removing cache namespace", "kind", k, "root", s.cache.Root())
		if err := s.cache.Remove(k); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s removed %s\n", SuccessStyle.Render("✓"), k)
	}
	return nil
}
