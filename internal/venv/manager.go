// SPDX-License-Identifier: MPL-2.0

package venv

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/buildboot/buildboot/internal/cache"
	"github.com/buildboot/buildboot/internal/runtime"
)

// DefaultInterpreter is used when no interpreter selector is configured.
const DefaultInterpreter = "python3"

// versionScript prints the interpreter's full version on stdout.
const versionScript = "import sys; print('%d.%d.%d' % sys.version_info[:3])"

// tagHashLen is the number of hex digits of the content hash kept in a tag.
const tagHashLen = 12

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.\d+$`)

type (
	// Request describes the environment to ensure.
	Request struct {
		// Interpreter is the interpreter selector: a command name resolved on
		// PATH or a path to an interpreter binary.
		Interpreter string
		// RequirementFiles populate the environment, in order.
		RequirementFiles []string
		// Env is the environment for toolchain processes; nil inherits.
		Env []string
	}

	// Manager creates and activates isolated environments under a cache root.
	Manager struct {
		cache    *cache.Dir
		tools    runtime.ToolRunner
		diag     io.Writer
		lookPath func(string) (string, error)
		now      func() time.Time
	}

	// Option configures a Manager.
	Option func(*Manager)
)

// WithToolRunner sets the runner for interpreter and installer processes.
func WithToolRunner(r runtime.ToolRunner) Option {
	return func(m *Manager) { m.tools = r }
}

// WithDiagnostics sets the writer receiving toolchain output.
func WithDiagnostics(w io.Writer) Option {
	return func(m *Manager) { m.diag = w }
}

// WithLookPath overrides interpreter resolution.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(m *Manager) { m.lookPath = fn }
}

// NewManager creates a Manager storing environments in dir.
func NewManager(dir *cache.Dir, opts ...Option) *Manager {
	m := &Manager{
		cache:    dir,
		tools:    runtime.ExecToolRunner{},
		diag:     os.Stderr,
		lookPath: exec.LookPath,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Ensure returns a handle to a complete environment for req, creating it on
// first use. Calls for an existing tag perform no file system mutation.
func (m *Manager) Ensure(ctx context.Context, req Request) (*Handle, error) {
	interp, version, tag, err := m.identify(ctx, req)
	if err != nil {
		return nil, err
	}

	root, err := m.cache.Path(cache.KindVenv, tag)
	if err != nil {
		return nil, &EnvironmentError{Op: "locate environment", Resource: tag, Err: err}
	}

	lock, err := m.cache.Lock(ctx, cache.KindVenv, tag)
	if err != nil {
		return nil, &EnvironmentError{Op: "lock environment", Resource: root, Err: err}
	}
	defer lock.Release()

	h := &Handle{VersionTag: tag, Root: root, PythonVersion: version, State: StateCreated}
	if complete(root, tag) {
		slog.Debug("reusing isolated environment", "tag", tag, "root", root)
		return h, nil
	}

	if err := m.create(ctx, interp, version, tag, root, req); err != nil {
		return nil, err
	}
	slog.Info("created isolated environment", "tag", tag, "root", root)
	return h, nil
}

// Inspect reports the environment req would use without creating or
// locking anything.
func (m *Manager) Inspect(ctx context.Context, req Request) (*Handle, error) {
	_, version, tag, err := m.identify(ctx, req)
	if err != nil {
		return nil, err
	}
	root, err := m.cache.Path(cache.KindVenv, tag)
	if err != nil {
		return nil, &EnvironmentError{Op: "locate environment", Resource: tag, Err: err}
	}
	h := &Handle{VersionTag: tag, Root: root, PythonVersion: version, State: StateAbsent}
	if complete(root, tag) {
		h.State = StateCreated
	}
	return h, nil
}

// Activate validates that every source path exists and returns the
// environment changes that make h's binaries resolve first.
func (m *Manager) Activate(h Handle, sourcePaths []string) (Activation, error) {
	if h.State == StateAbsent {
		return Activation{}, &EnvironmentError{Op: "activate environment", Resource: h.Root, Err: errors.New("environment has not been created")}
	}
	if _, err := os.Stat(h.Interpreter()); err != nil {
		return Activation{}, &EnvironmentError{Op: "activate environment", Resource: h.Root, Err: err}
	}
	for _, p := range sourcePaths {
		if _, err := os.Stat(p); err != nil {
			return Activation{}, &PathError{Role: "source path", Path: p, Err: err}
		}
	}

	h.State = StateActivated
	return Activation{
		Handle: h,
		Set: map[string]string{
			VirtualEnvVar: h.Root,
			pathVar:       h.BinDir(),
		},
		Unset: []string{pythonHomeVar},
	}, nil
}

// identify resolves the interpreter, its version, and the version tag.
func (m *Manager) identify(ctx context.Context, req Request) (interp, version, tag string, err error) {
	selector := req.Interpreter
	if selector == "" {
		selector = DefaultInterpreter
	}
	interp, err = m.lookPath(selector)
	if err != nil {
		return "", "", "", &EnvironmentError{Op: "discover interpreter", Resource: selector, Err: err}
	}

	version, err = m.interpreterVersion(ctx, interp, req.Env)
	if err != nil {
		return "", "", "", err
	}

	tag, err = VersionTag(version, req.RequirementFiles)
	if err != nil {
		return "", "", "", err
	}
	return interp, version, tag, nil
}

func (m *Manager) interpreterVersion(ctx context.Context, interp string, env []string) (string, error) {
	var out bytes.Buffer
	err := m.tools.RunTool(ctx, runtime.Command{
		Path:   interp,
		Args:   []string{"-c", versionScript},
		Env:    env,
		Stdout: &out,
		Stderr: m.diag,
	})
	if err != nil {
		return "", &EnvironmentError{Op: "query interpreter version", Resource: interp, Err: err}
	}
	version := strings.TrimSpace(out.String())
	if !versionPattern.MatchString(version) {
		return "", &EnvironmentError{Op: "query interpreter version", Resource: interp, Err: fmt.Errorf("unexpected version output %q", version)}
	}
	return version, nil
}

// create builds the environment at root. Any leftover directory at root is
// the remains of an interrupted run and is discarded first.
func (m *Manager) create(ctx context.Context, interp, version, tag, root string, req Request) (err error) {
	envErr := func(op string, cause error) error {
		return &EnvironmentError{Op: op, Resource: root, Err: cause}
	}

	found, err := exists(root)
	if err != nil {
		return envErr("inspect environment", err)
	}
	if found {
		slog.Warn("discarding incomplete isolated environment", "root", root)
		if err := os.RemoveAll(root); err != nil {
			return envErr("remove incomplete environment", err)
		}
	}
	if _, err := m.cache.Ensure(cache.KindVenv); err != nil {
		return envErr("create environment root", err)
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(root) // Without a marker the directory would be discarded anyway
		}
	}()

	if err := m.tools.RunTool(ctx, runtime.Command{
		Path:   interp,
		Args:   []string{"-m", "venv", root},
		Env:    req.Env,
		Stdout: m.diag,
		Stderr: m.diag,
	}); err != nil {
		return envErr("create environment", err)
	}

	h := Handle{Root: root}
	if len(req.RequirementFiles) > 0 {
		args := []string{"-m", "pip", "install", "--disable-pip-version-check"}
		for _, f := range req.RequirementFiles {
			args = append(args, "-r", f)
		}
		if err := m.tools.RunTool(ctx, runtime.Command{
			Path:   h.Interpreter(),
			Args:   args,
			Env:    req.Env,
			Stdout: m.diag,
			Stderr: m.diag,
		}); err != nil {
			return envErr("install requirements", err)
		}
	}

	if err := writeMarker(root, marker{
		VersionTag:    tag,
		Interpreter:   interp,
		PythonVersion: version,
		Requirements:  req.RequirementFiles,
		CreatedAt:     m.now().UTC(),
	}); err != nil {
		return envErr("record environment", err)
	}
	return nil
}

// VersionTag derives the environment key from the interpreter version and
// the contents of the requirement files, in order. A missing requirement
// file is a PathError.
func VersionTag(version string, requirementFiles []string) (string, error) {
	match := versionPattern.FindStringSubmatch(version)
	if match == nil {
		return "", fmt.Errorf("invalid interpreter version %q", version)
	}

	h := sha256.New()
	h.Write([]byte("python:" + version + "\n"))
	for _, f := range requirementFiles {
		data, err := os.ReadFile(f)
		if err != nil {
			return "", &PathError{Role: "requirement file", Path: f, Err: err}
		}
		sum := sha256.Sum256(data)
		h.Write([]byte("requirements:" + hex.EncodeToString(sum[:]) + "\n"))
	}
	return fmt.Sprintf("py%s.%s-%s", match[1], match[2], hex.EncodeToString(h.Sum(nil))[:tagHashLen]), nil
}
