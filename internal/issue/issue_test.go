// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	ids := []Id{
		ConfigLoadFailedId,
		CompositionFailedId,
		PathMissingId,
		EnvironmentUnavailableId,
		NativeBuildFailedId,
		HandoffFailedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil", id)
		}
	}

	if ConfigLoadFailedId != 1 {
		t.Errorf("ConfigLoadFailedId = %d, want 1", ConfigLoadFailedId)
	}
}

func TestGet_Unknown(t *testing.T) {
	if Get(Id(999)) != nil {
		t.Error("Get(999) should return nil")
	}
}

func TestValues(t *testing.T) {
	values := Values()
	if len(values) != len(catalog) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(catalog))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not ordered by Id at %d", i)
		}
	}

	values[0] = nil
	if Values()[0] == nil {
		t.Error("Values() exposed the internal catalog")
	}
}

func TestIssue_ExtLinksIsCopy(t *testing.T) {
	i := Get(ConfigLoadFailedId)
	links := i.ExtLinks()
	if len(links) == 0 {
		t.Fatal("ConfigLoadFailed should carry an external link")
	}
	links[0] = "mutated"
	if i.ExtLinks()[0] == "mutated" {
		t.Error("ExtLinks() should return a copy")
	}
}

func TestAllIssuesHaveContent(t *testing.T) {
	for _, i := range Values() {
		if !strings.HasPrefix(strings.TrimSpace(string(i.MarkdownMsg())), "# ") {
			t.Errorf("issue %d should start with a heading", i.Id())
		}
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	for _, i := range Values() {
		out, err := i.Render("notty")
		if err != nil {
			t.Errorf("issue %d failed to render: %v", i.Id(), err)
			continue
		}
		if strings.TrimSpace(out) == "" {
			t.Errorf("issue %d rendered empty", i.Id())
		}
	}
}

func TestIssue_Render_AppendsLinks(t *testing.T) {
	var got string
	orig := render
	render = func(in, _ string) (string, error) {
		got = in
		return in, nil
	}
	t.Cleanup(func() { render = orig })

	if _, err := Get(EnvironmentUnavailableId).Render("dark"); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(got, "## See also") || !strings.Contains(got, "docs.python.org") {
		t.Errorf("rendered markdown missing links:\n%s", got)
	}
}

func TestIssue_Render_PropagatesError(t *testing.T) {
	orig := render
	render = func(string, string) (string, error) { return "", errors.New("bad style") }
	t.Cleanup(func() { render = orig })

	if _, err := Get(HandoffFailedId).Render("missing.json"); err == nil {
		t.Error("Render() should propagate renderer errors")
	}
}
