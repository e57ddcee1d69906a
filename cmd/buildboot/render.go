// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/buildboot/buildboot/internal/compose"
	"github.com/buildboot/buildboot/internal/issue"
	"github.com/buildboot/buildboot/internal/launcher"
	"github.com/buildboot/buildboot/internal/native"
	"github.com/buildboot/buildboot/internal/venv"
)

// issueFor returns the help page for an error kind, or nil.
func issueFor(err error) *issue.Issue {
	switch {
	case errors.Is(err, errConfig), errors.Is(err, native.ErrInvalidDescriptor):
		return issue.Get(issue.ConfigLoadFailedId)
	case errors.Is(err, compose.ErrComposition):
		return issue.Get(issue.CompositionFailedId)
	case errors.Is(err, venv.ErrPath):
		return issue.Get(issue.PathMissingId)
	case errors.Is(err, venv.ErrEnvironment):
		return issue.Get(issue.EnvironmentUnavailableId)
	case errors.Is(err, native.ErrBuild):
		return issue.Get(issue.NativeBuildFailedId)
	case errors.Is(err, launcher.ErrHandoff):
		return issue.Get(issue.HandoffFailedId)
	}
	return nil
}

// actionable attaches an operation and fix suggestions to a bootstrap error,
// keyed on the same error kinds as issueFor. Errors that already carry
// suggestions, and kinds without a known fix, are returned unchanged.
func actionable(err error) error {
	var ae *issue.ActionableError
	if err == nil || errors.As(err, &ae) {
		return err
	}

	ctx := issue.NewErrorContext()
	var (
		compErr  *compose.CompositionError
		pathErr  *venv.PathError
		envErr   *venv.EnvironmentError
		buildErr *native.BuildError
		handErr  *launcher.HandoffError
	)
	switch {
	case errors.As(err, &compErr):
		variable := compErr.Variable
		if variable == "" {
			variable = launcher.EnvWrapperSrcPath
		}
		ctx.WithOperation("compose extensions").
			WithResource(variable).
			WithSuggestions(
				"Check "+launcher.EnvWrapperSrcPath+" and "+launcher.EnvWrapperRequirements+" for empty or blank segments",
				"Separate entries with '"+compose.Delimiter+"' and no surrounding whitespace",
			)
	case errors.As(err, &pathErr):
		ctx.WithOperation("resolve " + pathErr.Role).
			WithResource(pathErr.Path).
			WithSuggestions(
				"Check that every "+launcher.EnvWrapperSrcPath+" entry exists relative to the working directory",
				"Check source_paths and requirement_files in the configuration ('buildbootctl config show')",
			)
	case errors.As(err, &envErr):
		ctx.WithOperation("prepare isolated environment").
			WithResource(envErr.Resource).
			WithSuggestions(
				"Check "+launcher.EnvInterpreter+" and that the selected interpreter is on PATH",
				"Run 'buildbootctl clean --envs' to discard a damaged environment",
			)
	case errors.As(err, &buildErr):
		ctx.WithOperation("build native component").
			WithResource(buildErr.Name).
			WithSuggestions(
				"Check native.build_command and that the toolchain is installed",
				"Run 'buildbootctl native ensure --force' to rebuild from scratch",
			)
	case errors.As(err, &handErr):
		ctx.WithOperation("hand off to entry point").
			WithResource(handErr.Path).
			WithSuggestions(
				"Check entry_point and pex_path in the configuration",
				"Check that the file exists and is executable",
			)
	default:
		return err
	}
	return ctx.Wrap(err).BuildError()
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	if verbose {
		return issue.WrapWithOperation(err, "bootstrap").Format(true)
	}
	return err.Error()
}

// renderError writes a bootstrap failure to w. Toolchain output from a
// failed native build is written verbatim ahead of the message.
func renderError(w io.Writer, err error, verbose bool) {
	var buildErr *native.BuildError
	if errors.As(err, &buildErr) && buildErr.Output != "" {
		fmt.Fprint(w, buildErr.Output)
		if !strings.HasSuffix(buildErr.Output, "\n") {
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w, ErrorStyle.Render("error: ")+formatErrorForDisplay(err, verbose))

	if !verbose {
		return
	}
	if page := issueFor(err); page != nil {
		if out, rerr := page.Render("notty"); rerr == nil {
			fmt.Fprint(w, out)
		}
	}
}
