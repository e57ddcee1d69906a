// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/buildboot/buildboot/pkg/types"
)

// Delimiter separates entries in an extension list variable.
const Delimiter = ":"

// ErrComposition is the sentinel error wrapped by CompositionError.
var ErrComposition = errors.New("malformed extension list")

type (
	// Manifest is the ordered result of a composition: extension entries
	// first, then defaults. Duplicates are preserved.
	Manifest struct {
		SourcePaths      []string
		RequirementFiles []string
	}

	// CompositionError reports a segment of a colon-delimited list that
	// cannot be a path. Empty segments are never reported; they are dropped.
	CompositionError struct {
		// Variable names the input that carried the list (may be empty).
		Variable string
		// Index is the position of the offending segment in the raw split.
		Index int
		// Segment is the offending raw segment.
		Segment string
		Err     error
	}
)

// Error implements the error interface.
func (e *CompositionError) Error() string {
	src := "extension list"
	if e.Variable != "" {
		src = e.Variable
	}
	return fmt.Sprintf("%s: segment %d: %v", src, e.Index, e.Err)
}

// Unwrap lets errors.Is match both ErrComposition and the underlying
// path validation error.
func (e *CompositionError) Unwrap() []error { return []error{ErrComposition, e.Err} }

// SplitList splits a colon-delimited list into its non-empty segments,
// keeping their order. An empty input yields nil.
func SplitList(list string) ([]string, error) {
	return splitNamed("", list)
}

func splitNamed(variable, list string) ([]string, error) {
	if list == "" {
		return nil, nil
	}
	var out []string
	for i, seg := range strings.Split(list, Delimiter) {
		if seg == "" {
			continue
		}
		if err := types.FilesystemPath(seg).Validate(); err != nil {
			return nil, &CompositionError{Variable: variable, Index: i, Segment: seg, Err: err}
		}
		out = append(out, seg)
	}
	return out, nil
}

// Compose merges the extension lists ahead of the defaults. The default
// slices are never modified.
func Compose(defaultSources, defaultReqs []string, extSources, extReqs string) (Manifest, error) {
	return ComposeNamed(defaultSources, defaultReqs, Input{Value: extSources}, Input{Value: extReqs})
}

// Input is an extension list together with the variable it was read from,
// used to name the variable in errors.
type Input struct {
	Name  string
	Value string
}

// ComposeNamed is Compose with the source variable names carried into errors.
func ComposeNamed(defaultSources, defaultReqs []string, extSources, extReqs Input) (Manifest, error) {
	srcs, err := splitNamed(extSources.Name, extSources.Value)
	if err != nil {
		return Manifest{}, err
	}
	reqs, err := splitNamed(extReqs.Name, extReqs.Value)
	if err != nil {
		return Manifest{}, err
	}
	return Manifest{
		SourcePaths:      prepend(srcs, defaultSources),
		RequirementFiles: prepend(reqs, defaultReqs),
	}, nil
}

// Join renders paths as a single colon-delimited string.
func Join(paths []string) string {
	return strings.Join(paths, Delimiter)
}

func prepend(ext, defaults []string) []string {
	out := make([]string, 0, len(ext)+len(defaults))
	out = append(out, ext...)
	return append(out, defaults...)
}
