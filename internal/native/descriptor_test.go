// SPDX-License-Identifier: MPL-2.0

package native

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestDescriptorArgv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command string
		env     []string
		want    []string
	}{
		{"plain words", "cargo build --release", nil, []string{"cargo", "build", "--release"}},
		{"quoted argument", `cargo build --features "a b"`, []string{}, []string{"cargo", "build", "--features", "a b"}},
		{"expansion from env", "cargo build --target $TRIPLE", []string{"TRIPLE=x86_64-unknown-linux-gnu"}, []string{"cargo", "build", "--target", "x86_64-unknown-linux-gnu"}},
		{"unset variable expands empty", "make $UNSET all", []string{}, []string{"make", "all"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Descriptor{BuildCommand: tt.command, Env: tt.env}.Argv()
			if err != nil {
				t.Fatalf("Argv() error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Argv() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescriptorOutputPath(t *testing.T) {
	t.Parallel()

	abs := filepath.Join(os.TempDir(), "out.so")
	if got := (Descriptor{WorkDir: "/w", Output: abs}).OutputPath(); got != abs {
		t.Errorf("OutputPath() = %q, want %q", got, abs)
	}
	if got, want := (Descriptor{WorkDir: "/w", Output: "target/release/lib.so"}).OutputPath(), filepath.Join("/w", "target/release/lib.so"); got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.rs"), "a")
	base := Descriptor{Name: "engine", Target: "linux-amd64", SourceDirs: []string{src}, BuildCommand: "cargo build"}

	k1, err := Key(base)
	if err != nil {
		t.Fatalf("Key() error: %v", err)
	}
	k2, _ := Key(base)
	if k1 != k2 {
		t.Errorf("Key() not deterministic: %s vs %s", k1, k2)
	}

	other := base
	other.Target = "darwin-arm64"
	if k, _ := Key(other); k == k1 {
		t.Error("target must be part of the key")
	}
	other = base
	other.BuildCommand = "cargo build --release"
	if k, _ := Key(other); k == k1 {
		t.Error("build command must be part of the key")
	}

	missing := base
	missing.SourceDirs = []string{filepath.Join(src, "missing")}
	if _, err := Key(missing); err == nil {
		t.Error("Key() should fail for a missing source directory")
	}
}

func TestDefaultTarget(t *testing.T) {
	t.Parallel()

	if DefaultTarget() == "" || DefaultTarget()[0] == '-' {
		t.Errorf("DefaultTarget() = %q", DefaultTarget())
	}
}
