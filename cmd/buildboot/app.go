// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/buildboot/buildboot/internal/cache"
	"github.com/buildboot/buildboot/internal/compose"
	"github.com/buildboot/buildboot/internal/config"
	"github.com/buildboot/buildboot/internal/launcher"
	"github.com/buildboot/buildboot/internal/native"
	"github.com/buildboot/buildboot/internal/runtime"
	"github.com/buildboot/buildboot/internal/venv"
	"github.com/buildboot/buildboot/pkg/types"
)

type (
	// ConfigProvider loads launcher configuration.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Loaded, error)
	}

	// App wires CLI services and shared dependencies. It is the composition
	// root for both CLI roots.
	App struct {
		Config   ConfigProvider
		Executor runtime.Executor
		Tools    runtime.ToolRunner
		stdin    io.Reader
		stdout   io.Writer
		stderr   io.Writer
		environ  func() []string
		getwd    func() (string, error)
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Executor runtime.Executor
		Tools    runtime.ToolRunner
		Stdin    io.Reader
		Stdout   io.Writer
		Stderr   io.Writer
		Environ  func() []string
		Getwd    func() (string, error)
	}

	// session is the per-command view of a loaded configuration.
	session struct {
		app *App
		// cfg has every path resolved to an absolute path.
		cfg *config.Config
		// source is the config file in use, empty for defaults.
		source string
		cache  *cache.Dir
	}
)

// NewApp creates an App, filling nil dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:   deps.Config,
		Executor: deps.Executor,
		Tools:    deps.Tools,
		stdin:    deps.Stdin,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
		environ:  deps.Environ,
		getwd:    deps.Getwd,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Executor == nil {
		app.Executor = runtime.NewProcessExecutor()
	}
	if app.Tools == nil {
		app.Tools = runtime.ExecToolRunner{}
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.environ == nil {
		app.environ = os.Environ
	}
	if app.getwd == nil {
		app.getwd = os.Getwd
	}
	return app
}

// lookupEnv reads a variable from the App's environment.
func (a *App) lookupEnv(key string) (string, bool) {
	return runtime.LookupFunc(a.environ())(key)
}

// open loads and resolves the configuration. Relative install roots resolve
// against the directory of the config file, or the working directory when
// only defaults apply.
func (a *App) open(ctx context.Context) (*session, error) {
	wd, err := a.getwd()
	if err != nil {
		return nil, fmt.Errorf("%w: determine working directory: %w", errConfig, err)
	}

	opts := config.LoadOptions{BaseDir: types.FilesystemPath(wd)}
	if explicit, _ := a.lookupEnv(config.EnvConfigPath); explicit != "" {
		opts.ConfigFilePath = types.FilesystemPath(explicit)
	}
	loaded, err := a.Config.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errConfig, err)
	}

	base := wd
	if loaded.Path != "" {
		p := loaded.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(wd, p)
		}
		base = filepath.Dir(p)
	}
	cfg, err := loaded.Config.Resolved(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errConfig, err)
	}
	setupLogging(a.stderr, cfg.Log.Level)

	return &session{app: a, cfg: cfg, source: loaded.Path, cache: cache.New(cfg.CacheDir)}, nil
}

func (s *session) envManager() *venv.Manager {
	return venv.NewManager(s.cache,
		venv.WithToolRunner(s.app.Tools),
		venv.WithDiagnostics(s.app.stderr),
	)
}

func (s *session) nativeBuilder(opts ...native.Option) *native.Builder {
	return native.NewBuilder(s.cache, append([]native.Option{
		native.WithToolRunner(s.app.Tools),
		native.WithDiagnostics(s.app.stderr),
	}, opts...)...)
}

// descriptor returns the native component descriptor, or nil when disabled.
func (s *session) descriptor() *native.Descriptor {
	n := s.cfg.Native
	if !n.Enabled {
		return nil
	}
	target := n.Target
	if target == "" {
		target = native.DefaultTarget()
	}
	return &native.Descriptor{
		Name:         n.Name,
		Target:       target,
		SourceDirs:   n.SourceDirs,
		BuildCommand: n.BuildCommand,
		WorkDir:      n.WorkDir,
		Output:       n.Output,
		Version:      n.Version,
	}
}

func (s *session) settings() launcher.Settings {
	return launcher.Settings{
		PexPath:          s.cfg.PexPath,
		EntryPoint:       s.cfg.EntryPoint,
		Interpreter:      s.cfg.Interpreter,
		SourcePaths:      s.cfg.SourcePaths,
		RequirementFiles: s.cfg.RequirementFiles,
		Native:           s.descriptor(),
	}
}

// interpreter returns the interpreter selector, honoring PY.
func (s *session) interpreter() string {
	if py, _ := s.app.lookupEnv(launcher.EnvInterpreter); py != "" {
		return py
	}
	return s.cfg.Interpreter
}

func (s *session) launcher(opts ...launcher.Option) *launcher.Launcher {
	return launcher.New(s.settings(), s.envManager(), s.nativeBuilder(), s.app.Executor, opts...)
}

func (s *session) invocation(args []string) launcher.Invocation {
	return launcher.Invocation{
		Args:    args,
		Environ: s.app.environ(),
		Stdin:   s.app.stdin,
		Stdout:  s.app.stdout,
		Stderr:  s.app.stderr,
	}
}

// verbose reports whether diagnostics should include error chains and help pages.
func (s *session) verbose() bool {
	return s != nil && s.cfg.Log.Level == config.LogLevelDebug
}

// manifest composes the extension lists from the App's environment with the
// configured defaults.
func (s *session) manifest() (compose.Manifest, error) {
	srcs, _ := s.app.lookupEnv(launcher.EnvWrapperSrcPath)
	reqs, _ := s.app.lookupEnv(launcher.EnvWrapperRequirements)
	return compose.ComposeNamed(s.cfg.SourcePaths, s.cfg.RequirementFiles,
		compose.Input{Name: launcher.EnvWrapperSrcPath, Value: srcs},
		compose.Input{Name: launcher.EnvWrapperRequirements, Value: reqs},
	)
}

// envRequest builds the environment request for a composed manifest.
func (s *session) envRequest(m compose.Manifest) venv.Request {
	return venv.Request{
		Interpreter:      s.interpreter(),
		RequirementFiles: m.RequirementFiles,
		Env:              s.app.environ(),
	}
}
