// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	CompositionFailedId
	PathMissingId
	EnvironmentUnavailableId
	NativeBuildFailedId
	HandoffFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue's Markdown with the glamour style at stylePath
// (a standard style name such as "dark" or "notty", or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.extLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

The launcher reads its configuration before anything else and stops when the
file is missing, is not valid CUE, or does not match the schema.

## Lookup order
1. The file named by ` + "`BUILDBOOT_CONFIG`" + `
2. ` + "`./buildboot.cue`" + `
3. ` + "`config.cue`" + ` in the user configuration directory

## Things you can try
- Print the effective configuration:
~~~
$ buildbootctl config show
~~~
- Write a fresh default file and edit it:
~~~
$ buildbootctl config init
~~~
- Check ` + "`BUILDBOOT_*`" + ` environment overrides for typos.`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	compositionFailedIssue = &Issue{
		id: CompositionFailedId,
		mdMsg: `
# Malformed extension list

` + "`WRAPPER_SRCPATH`" + ` and ` + "`WRAPPER_REQUIREMENTS`" + ` hold colon-separated
paths. Empty entries are skipped, but an entry made only of whitespace or
containing a newline or NUL byte is rejected.

## Things you can try
- Print both variables and look for stray spaces around the colons:
~~~
$ printf '%s\n' "$WRAPPER_SRCPATH" "$WRAPPER_REQUIREMENTS"
~~~
- Preview the composed lists:
~~~
$ buildbootctl compose
~~~`,
	}

	pathMissingIssue = &Issue{
		id: PathMissingId,
		mdMsg: `
# A declared path does not exist

Every source path and requirement file, whether it comes from the
configuration or from a wrapping project, must exist before the launcher
activates the environment.

## Things you can try
- Check the path named in the error for typos.
- Relative extension paths are resolved against the current directory.
- Run ` + "`buildbootctl compose`" + ` to see where each entry came from.`,
	}

	environmentUnavailableIssue = &Issue{
		id: EnvironmentUnavailableId,
		mdMsg: `
# The isolated environment is unavailable

The interpreter could not be found, or creating the virtual environment or
installing its requirements failed.

## Things you can try
- Check the interpreter selector (` + "`PY`" + ` or ` + "`interpreter`" + ` in the config):
~~~
$ command -v python3
~~~
- Make sure the cache directory is writable.
- Remove broken environments and retry:
~~~
$ buildbootctl clean --envs
~~~`,
		extLinks: []HttpLink{"https://docs.python.org/3/library/venv.html"},
	}

	nativeBuildFailedIssue = &Issue{
		id: NativeBuildFailedId,
		mdMsg: `
# The native component failed to build

The toolchain output above is printed exactly as the toolchain produced it.

## Things you can try
- Fix the reported compiler error and rerun; the artifact is rebuilt only
  when its sources change.
- Force a rebuild after a toolchain upgrade:
~~~
$ buildbootctl native ensure --force
~~~`,
	}

	handoffFailedIssue = &Issue{
		id: HandoffFailedId,
		mdMsg: `
# The entry point could not be started

Bootstrap finished, but the process that should take over could not be
executed.

## Things you can try
- With ` + "`RUN_PANTS_FROM_PEX`" + ` set, check that ` + "`pex_path`" + ` exists and is executable.
- Otherwise check ` + "`entry_point`" + ` in the configuration.`,
	}

	catalog = []*Issue{
		configLoadFailedIssue,
		compositionFailedIssue,
		pathMissingIssue,
		environmentUnavailableIssue,
		nativeBuildFailedIssue,
		handoffFailedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	return slices.Clone(catalog)
}

// Get returns the issue with the given id, or nil.
func Get(id Id) *Issue {
	for _, i := range catalog {
		if i.id == id {
			return i
		}
	}
	return nil
}
