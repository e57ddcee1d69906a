// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"context"
	"io"
	"log/slog"

	"github.com/buildboot/buildboot/internal/compose"
	"github.com/buildboot/buildboot/internal/native"
	"github.com/buildboot/buildboot/internal/runtime"
	"github.com/buildboot/buildboot/internal/venv"
	"github.com/buildboot/buildboot/pkg/types"
)

type (
	// Composer merges extension lists ahead of the defaults.
	Composer interface {
		Compose(defaultSources, defaultReqs []string, extSources, extReqs compose.Input) (compose.Manifest, error)
	}

	// ComposerFunc adapts a function to Composer.
	ComposerFunc func(defaultSources, defaultReqs []string, extSources, extReqs compose.Input) (compose.Manifest, error)

	// EnvironmentManager prepares the isolated environment.
	EnvironmentManager interface {
		Ensure(ctx context.Context, req venv.Request) (*venv.Handle, error)
		Activate(h venv.Handle, sourcePaths []string) (venv.Activation, error)
	}

	// NativeBuilder ensures the native component is current.
	NativeBuilder interface {
		Ensure(ctx context.Context, d native.Descriptor) (*native.Artifact, error)
	}

	// Settings are the resolved launcher settings. Paths are absolute.
	Settings struct {
		// PexPath is the prebuilt artifact run on the fast path.
		PexPath string
		// EntryPoint is the script the environment's interpreter runs.
		EntryPoint string
		// Interpreter is the interpreter selector used unless PY is set.
		Interpreter      string
		SourcePaths      []string
		RequirementFiles []string
		// Native describes the native component; nil disables it.
		Native *native.Descriptor
	}

	// Invocation is one launch request from the user's shell.
	Invocation struct {
		// Args are forwarded to the launched process unchanged.
		Args []string
		// Environ is the caller's environment.
		Environ []string
		Dir     string
		Stdin   io.Reader
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// Launcher serves invocations.
	Launcher struct {
		settings Settings
		composer Composer
		envs     EnvironmentManager
		builder  NativeBuilder
		executor runtime.Executor
	}

	// Option configures a Launcher.
	Option func(*Launcher)
)

// Compose calls f.
func (f ComposerFunc) Compose(defaultSources, defaultReqs []string, extSources, extReqs compose.Input) (compose.Manifest, error) {
	return f(defaultSources, defaultReqs, extSources, extReqs)
}

// WithComposer replaces the extension composer.
func WithComposer(c Composer) Option {
	return func(l *Launcher) { l.composer = c }
}

// New creates a Launcher.
func New(s Settings, envs EnvironmentManager, builder NativeBuilder, executor runtime.Executor, opts ...Option) *Launcher {
	l := &Launcher{
		settings: s,
		composer: ComposerFunc(compose.ComposeNamed),
		envs:     envs,
		builder:  builder,
		executor: executor,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run serves inv and returns the exit code of the launched process. A
// non-nil error means nothing was launched, or the launch itself failed;
// ExitCodeFor maps it to an exit code.
func (l *Launcher) Run(ctx context.Context, inv Invocation) (types.ExitCode, error) {
	lookup := runtime.LookupFunc(inv.Environ)
	mode := ModeFor(lookup)
	slog.Debug("serving invocation", "mode", mode, "args", len(inv.Args))

	if mode == ModeFromPex {
		return l.handoff(ctx, mode, inv, runtime.Command{
			Path: l.settings.PexPath,
			Args: inv.Args,
			Env:  inv.Environ,
		})
	}

	cmd, err := l.Prepare(ctx, inv)
	if err != nil {
		return ExitCodeFor(err), err
	}
	return l.handoff(ctx, mode, inv, cmd)
}

// Prepare performs the full bootstrap and returns the entry point command
// without starting it.
func (l *Launcher) Prepare(ctx context.Context, inv Invocation) (runtime.Command, error) {
	lookup := runtime.LookupFunc(inv.Environ)

	srcs, _ := lookup(EnvWrapperSrcPath)
	reqs, _ := lookup(EnvWrapperRequirements)
	manifest, err := l.composer.Compose(l.settings.SourcePaths, l.settings.RequirementFiles,
		compose.Input{Name: EnvWrapperSrcPath, Value: srcs},
		compose.Input{Name: EnvWrapperRequirements, Value: reqs},
	)
	if err != nil {
		return runtime.Command{}, err
	}

	interpreter := l.settings.Interpreter
	if py, _ := lookup(EnvInterpreter); py != "" {
		interpreter = py
	}
	h, err := l.envs.Ensure(ctx, venv.Request{
		Interpreter:      interpreter,
		RequirementFiles: manifest.RequirementFiles,
		Env:              inv.Environ,
	})
	if err != nil {
		return runtime.Command{}, err
	}

	act, err := l.envs.Activate(*h, manifest.SourcePaths)
	if err != nil {
		return runtime.Command{}, err
	}

	var artifact *native.Artifact
	if l.settings.Native != nil {
		activated := runtime.EnvFromSlice(inv.Environ)
		act.Apply(activated)
		d := *l.settings.Native
		d.Env = runtime.EnvToSlice(activated)
		if artifact, err = l.builder.Ensure(ctx, d); err != nil {
			return runtime.Command{}, err
		}
	}

	env := NewComposedEnvironment(inv.Environ, act, manifest, artifact)
	return runtime.Command{
		Path: act.Handle.Interpreter(),
		Args: append([]string{l.settings.EntryPoint}, inv.Args...),
		Env:  env.Environ(),
	}, nil
}

func (l *Launcher) handoff(ctx context.Context, mode Mode, inv Invocation, cmd runtime.Command) (types.ExitCode, error) {
	cmd.Dir = inv.Dir
	cmd.Stdin = inv.Stdin
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	slog.Debug("handing off", "mode", mode, "path", cmd.Path)
	code, err := l.executor.Exec(ctx, cmd)
	if err != nil {
		err = &HandoffError{Mode: mode, Path: cmd.Path, Err: err}
		return ExitCodeFor(err), err
	}
	return code, nil
}
