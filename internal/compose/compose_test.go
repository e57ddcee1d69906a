// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/buildboot/buildboot/pkg/types"

	"pgregory.net/rapid"
)

func TestSplitList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "/ext/a", want: []string{"/ext/a"}},
		{name: "two", in: "/ext/a:/ext/b", want: []string{"/ext/a", "/ext/b"}},
		{name: "trailing delimiter", in: "/ext/a:", want: []string{"/ext/a"}},
		{name: "leading delimiter", in: ":/ext/a", want: []string{"/ext/a"}},
		{name: "double delimiter", in: "/ext/a::/ext/b", want: []string{"/ext/a", "/ext/b"}},
		{name: "only delimiters", in: ":::", want: nil},
		{name: "relative paths kept verbatim", in: "src:../other", want: []string{"src", "../other"}},
		{name: "spaces inside a path", in: "/my dir/a", want: []string{"/my dir/a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := SplitList(tt.in)
			if err != nil {
				t.Fatalf("SplitList(%q) error: %v", tt.in, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("SplitList(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitList_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        string
		wantIndex int
	}{
		{name: "whitespace segment", in: "/ext/a: :/ext/b", wantIndex: 1},
		{name: "NUL in segment", in: "/ext/a\x00", wantIndex: 0},
		{name: "newline in segment", in: "/ext/a:/ext/b\n/c", wantIndex: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := SplitList(tt.in)
			if err == nil {
				t.Fatalf("SplitList(%q) returned nil error", tt.in)
			}
			if !errors.Is(err, ErrComposition) {
				t.Errorf("error should wrap ErrComposition, got: %v", err)
			}
			if !errors.Is(err, types.ErrInvalidFilesystemPath) {
				t.Errorf("error should wrap ErrInvalidFilesystemPath, got: %v", err)
			}
			var ce *CompositionError
			if !errors.As(err, &ce) {
				t.Fatalf("error should be *CompositionError, got %T", err)
			}
			if ce.Index != tt.wantIndex {
				t.Errorf("CompositionError.Index = %d, want %d", ce.Index, tt.wantIndex)
			}
		})
	}
}

func TestCompose_ExtensionScenario(t *testing.T) {
	t.Parallel()

	m, err := Compose([]string{"/core/src"}, nil, "/ext/a:/ext/b", "")
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	want := []string{"/ext/a", "/ext/b", "/core/src"}
	if !slices.Equal(m.SourcePaths, want) {
		t.Errorf("SourcePaths = %q, want %q", m.SourcePaths, want)
	}
	if len(m.RequirementFiles) != 0 {
		t.Errorf("RequirementFiles = %q, want empty", m.RequirementFiles)
	}
}

func TestCompose_NoExtensionsYieldsDefaults(t *testing.T) {
	t.Parallel()

	srcs := []string{"/core/src", "/core/contrib"}
	reqs := []string{"/core/requirements.txt"}
	m, err := Compose(srcs, reqs, "", "")
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if !slices.Equal(m.SourcePaths, srcs) {
		t.Errorf("SourcePaths = %q, want %q", m.SourcePaths, srcs)
	}
	if !slices.Equal(m.RequirementFiles, reqs) {
		t.Errorf("RequirementFiles = %q, want %q", m.RequirementFiles, reqs)
	}
}

func TestCompose_PreservesDuplicates(t *testing.T) {
	t.Parallel()

	m, err := Compose([]string{"/core/src"}, []string{"/r.txt"}, "/core/src:/core/src", "/r.txt")
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if want := []string{"/core/src", "/core/src", "/core/src"}; !slices.Equal(m.SourcePaths, want) {
		t.Errorf("SourcePaths = %q, want %q", m.SourcePaths, want)
	}
	if want := []string{"/r.txt", "/r.txt"}; !slices.Equal(m.RequirementFiles, want) {
		t.Errorf("RequirementFiles = %q, want %q", m.RequirementFiles, want)
	}
}

func TestCompose_DoesNotAliasDefaults(t *testing.T) {
	t.Parallel()

	defaults := make([]string, 1, 4)
	defaults[0] = "/core/src"
	m, err := Compose(defaults, nil, "", "")
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	m.SourcePaths[0] = "/mutated"
	if defaults[0] != "/core/src" {
		t.Errorf("Compose() result aliases the defaults slice")
	}
}

func TestComposeNamed_ReportsVariable(t *testing.T) {
	t.Parallel()

	_, err := ComposeNamed(nil, nil,
		Input{Name: "WRAPPER_SRCPATH", Value: "/ok"},
		Input{Name: "WRAPPER_REQUIREMENTS", Value: "/ok.txt:  "},
	)
	if err == nil {
		t.Fatal("ComposeNamed() returned nil error")
	}
	if !strings.Contains(err.Error(), "WRAPPER_REQUIREMENTS") {
		t.Errorf("error should name the variable, got: %v", err)
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	if got := Join([]string{"/ext/a", "/core/src"}); got != "/ext/a:/core/src" {
		t.Errorf("Join() = %q", got)
	}
	if got := Join(nil); got != "" {
		t.Errorf("Join(nil) = %q, want empty", got)
	}
}

// pathSegment draws a non-empty path segment that is valid inside a list.
func pathSegment() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9_./-][A-Za-z0-9_. /-]{0,12}`)
}

func TestCompose_Property_ExtensionsThenDefaults(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		defaults := rapid.SliceOf(pathSegment()).Draw(t, "defaults")
		ext := rapid.SliceOf(pathSegment()).Draw(t, "ext")

		// Surround and separate segments with a random number of delimiters;
		// the empty segments this creates must be dropped.
		var sb strings.Builder
		sb.WriteString(strings.Repeat(Delimiter, rapid.IntRange(0, 2).Draw(t, "leading")))
		for i, seg := range ext {
			if i > 0 {
				sb.WriteString(strings.Repeat(Delimiter, rapid.IntRange(1, 3).Draw(t, "sep")))
			}
			sb.WriteString(seg)
		}
		sb.WriteString(strings.Repeat(Delimiter, rapid.IntRange(0, 2).Draw(t, "trailing")))

		m, err := Compose(defaults, defaults, sb.String(), sb.String())
		if err != nil {
			t.Fatalf("Compose(%q) error: %v", sb.String(), err)
		}

		want := append(slices.Clone(ext), defaults...)
		if !slices.Equal(m.SourcePaths, want) {
			t.Fatalf("SourcePaths = %q, want %q", m.SourcePaths, want)
		}
		if !slices.Equal(m.RequirementFiles, want) {
			t.Fatalf("RequirementFiles = %q, want %q", m.RequirementFiles, want)
		}
	})
}

func TestCompose_Property_Deterministic(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		defaults := rapid.SliceOf(pathSegment()).Draw(t, "defaults")
		raw := rapid.StringMatching(`[a-z/:]{0,20}`).Draw(t, "raw")

		a, errA := Compose(defaults, nil, raw, "")
		b, errB := Compose(defaults, nil, raw, "")
		if (errA == nil) != (errB == nil) {
			t.Fatalf("non-deterministic error: %v vs %v", errA, errB)
		}
		if !slices.Equal(a.SourcePaths, b.SourcePaths) {
			t.Fatalf("non-deterministic result: %q vs %q", a.SourcePaths, b.SourcePaths)
		}
	})
}
