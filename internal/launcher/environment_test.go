// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"os"
	"testing"

	"github.com/buildboot/buildboot/internal/compose"
	"github.com/buildboot/buildboot/internal/venv"
)

func TestComposedEnvironment_DevMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		base    []string
		want    string
		wantSet bool
	}{
		{"unset defaults on", nil, "1", true},
		{"explicit zero removes", []string{"PANTS_DEV=0"}, "", false},
		{"false removes", []string{"PANTS_DEV=False"}, "", false},
		{"empty removes", []string{"PANTS_DEV="}, "", false},
		{"truthy normalized", []string{"PANTS_DEV=yes"}, "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := NewComposedEnvironment(tt.base, venv.Activation{}, compose.Manifest{}, nil)
			got, ok := env.Get(EnvDevMode)
			if ok != tt.wantSet || got != tt.want {
				t.Errorf("PANTS_DEV = %q (set=%v), want %q (set=%v)", got, ok, tt.want, tt.wantSet)
			}
		})
	}
}

func TestComposedEnvironment_PythonPath(t *testing.T) {
	t.Parallel()

	sep := string(os.PathListSeparator)
	m := compose.Manifest{SourcePaths: []string{"/ext/a", "/repo/src/python"}}

	env := NewComposedEnvironment([]string{"PYTHONPATH=/user/site"}, venv.Activation{}, m, nil)
	if got, want := env.Map()[EnvPythonPath], "/ext/a"+sep+"/repo/src/python"+sep+"/user/site"; got != want {
		t.Errorf("PYTHONPATH = %q, want %q", got, want)
	}

	bare := NewComposedEnvironment(nil, venv.Activation{}, compose.Manifest{}, nil)
	if _, ok := bare.Get(EnvPythonPath); ok {
		t.Error("PYTHONPATH set without source paths")
	}
}

func TestComposedEnvironment_FromSourcesMarker(t *testing.T) {
	t.Parallel()

	sep := string(os.PathListSeparator)
	tests := []struct {
		name        string
		manifest    compose.Manifest
		wantSrcPath string
	}{
		{"empty manifest", compose.Manifest{}, ""},
		{"single path", compose.Manifest{SourcePaths: []string{"/repo/src"}}, "/repo/src"},
		{"extension first", compose.Manifest{SourcePaths: []string{"/ext", "/repo/src"}}, "/ext" + sep + "/repo/src"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := NewComposedEnvironment(nil, venv.Activation{}, tt.manifest, nil)
			if v, ok := env.Get(EnvFromSourcesMarker); !ok || v != "1" {
				t.Errorf("%s = %q (set=%v), want 1", EnvFromSourcesMarker, v, ok)
			}
			if v, ok := env.Get(EnvSrcPath); !ok || v != tt.wantSrcPath {
				t.Errorf("%s = %q (set=%v), want %q", EnvSrcPath, v, ok, tt.wantSrcPath)
			}
		})
	}
}

func TestComposedEnvironment_IsImmutable(t *testing.T) {
	t.Parallel()

	env := NewComposedEnvironment([]string{"A=1"}, venv.Activation{}, compose.Manifest{}, nil)
	m := env.Map()
	m["A"] = "changed"
	delete(m, EnvDevMode)

	if v, _ := env.Get("A"); v != "1" {
		t.Errorf("mutating Map() leaked into the environment: A=%q", v)
	}
	if _, ok := env.Get(EnvDevMode); !ok {
		t.Error("mutating Map() removed a variable")
	}
	if env.Len() != len(env.Environ()) {
		t.Errorf("Len() = %d, Environ() has %d entries", env.Len(), len(env.Environ()))
	}
}
