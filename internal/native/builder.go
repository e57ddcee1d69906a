// SPDX-License-Identifier: MPL-2.0

package native

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/buildboot/buildboot/internal/cache"
	"github.com/buildboot/buildboot/internal/runtime"

	"golang.org/x/sync/singleflight"
)

type (
	// Artifact is a built native component in the cache.
	Artifact struct {
		Name   string
		Target string
		// Key is the build key the artifact was produced for.
		Key     string
		BuiltAt time.Time
		// Path is the cached artifact file.
		Path string
		// Cached is true when no build ran in this call.
		Cached bool
	}

	// Status is the read-only view of a component's cache entry.
	Status struct {
		Name   string
		Target string
		// Key is the key the current sources would build.
		Key string
		// RecordedKey is the key of the committed artifact, empty if none.
		RecordedKey string
		BuiltAt     time.Time
		Path        string
		// Current is true when the committed artifact matches Key.
		Current bool
	}

	// Builder lazily builds native components into a cache directory.
	Builder struct {
		cache *cache.Dir
		tools runtime.ToolRunner
		diag  io.Writer
		force bool
		now   func() time.Time
		group singleflight.Group
	}

	// Option configures a Builder.
	Option func(*Builder)

	// lockedWriter serializes writes from the toolchain's two output streams.
	lockedWriter struct {
		mu sync.Mutex
		w  io.Writer
	}
)

// WithToolRunner sets the runner for toolchain processes.
func WithToolRunner(r runtime.ToolRunner) Option {
	return func(b *Builder) { b.tools = r }
}

// WithDiagnostics sets the writer mirroring toolchain output.
func WithDiagnostics(w io.Writer) Option {
	return func(b *Builder) { b.diag = w }
}

// WithForceRebuild makes Ensure build even when the cached artifact is current.
func WithForceRebuild(force bool) Option {
	return func(b *Builder) { b.force = force }
}

// NewBuilder creates a Builder storing artifacts in dir.
func NewBuilder(dir *cache.Dir, opts ...Option) *Builder {
	b := &Builder{
		cache: dir,
		tools: runtime.ExecToolRunner{},
		diag:  os.Stderr,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Ensure returns an artifact current for d, building it when the cache holds
// no artifact for d's key. Concurrent calls for the same key share one build.
func (b *Builder) Ensure(ctx context.Context, d Descriptor) (*Artifact, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	key, err := Key(d)
	if err != nil {
		return nil, &BuildError{Name: d.Name, Target: d.Target, Command: d.BuildCommand, Err: err}
	}

	v, err, shared := b.group.Do(d.Name+"/"+d.Target+"/"+key, func() (any, error) {
		return b.ensure(ctx, d, key)
	})
	if err != nil {
		return nil, err
	}
	a := *v.(*Artifact)
	if shared {
		slog.Debug("joined in-flight native build", "name", d.Name, "target", d.Target)
	}
	return &a, nil
}

// Inspect reports the cache state of d without building or locking.
func (b *Builder) Inspect(_ context.Context, d Descriptor) (Status, error) {
	if err := d.Validate(); err != nil {
		return Status{}, err
	}
	key, err := Key(d)
	if err != nil {
		return Status{}, &BuildError{Name: d.Name, Target: d.Target, Command: d.BuildCommand, Err: err}
	}
	dir, err := b.cache.Path(cache.KindNative, d.Name, d.Target)
	if err != nil {
		return Status{}, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}

	st := Status{Name: d.Name, Target: d.Target, Key: key, Path: filepath.Join(dir, artifactFileName)}
	rec, err := readRecord(dir)
	if err != nil {
		return Status{}, fmt.Errorf("read build record: %w", err)
	}
	if rec != nil {
		st.RecordedKey = rec.Key
		st.BuiltAt = rec.BuiltAt
		st.Current = current(rec, key, st.Path)
	}
	return st, nil
}

func (b *Builder) ensure(ctx context.Context, d Descriptor, key string) (*Artifact, error) {
	buildErr := func(cause error) error {
		return &BuildError{Name: d.Name, Target: d.Target, Command: d.BuildCommand, Err: cause}
	}

	dir, err := b.cache.Path(cache.KindNative, d.Name, d.Target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	artifactPath := filepath.Join(dir, artifactFileName)

	lock, err := b.cache.Lock(ctx, cache.KindNative, d.Name, d.Target)
	if err != nil {
		return nil, buildErr(fmt.Errorf("lock native cache: %w", err))
	}
	defer lock.Release()

	rec, err := readRecord(dir)
	if err != nil {
		return nil, buildErr(fmt.Errorf("read build record: %w", err))
	}
	if !b.force && current(rec, key, artifactPath) {
		slog.Debug("native artifact is current", "name", d.Name, "target", d.Target, "key", key)
		return &Artifact{Name: d.Name, Target: d.Target, Key: key, BuiltAt: rec.BuiltAt, Path: artifactPath, Cached: true}, nil
	}

	if err := b.build(ctx, d); err != nil {
		return nil, err
	}

	if _, err := b.cache.Ensure(cache.KindNative, d.Name, d.Target); err != nil {
		return nil, buildErr(err)
	}
	// The old record must not describe the new artifact if the commit below
	// is interrupted.
	if err := removeRecord(dir); err != nil {
		return nil, buildErr(fmt.Errorf("invalidate build record: %w", err))
	}
	if err := commitArtifact(d.OutputPath(), artifactPath); err != nil {
		return nil, buildErr(err)
	}
	builtAt := b.now().UTC()
	if err := writeRecord(dir, record{
		Key:     key,
		Name:    d.Name,
		Target:  d.Target,
		Command: d.BuildCommand,
		Output:  d.OutputPath(),
		BuiltAt: builtAt,
	}); err != nil {
		return nil, buildErr(err)
	}

	slog.Info("built native component", "name", d.Name, "target", d.Target, "key", key)
	return &Artifact{Name: d.Name, Target: d.Target, Key: key, BuiltAt: builtAt, Path: artifactPath}, nil
}

// build runs the toolchain and checks that it produced the declared output.
func (b *Builder) build(ctx context.Context, d Descriptor) error {
	argv, err := d.Argv()
	if err != nil {
		return err
	}

	var output bytes.Buffer
	w := &lockedWriter{w: io.MultiWriter(&output, b.diag)}
	slog.Debug("building native component", "name", d.Name, "target", d.Target, "command", d.BuildCommand)

	if err := b.tools.RunTool(ctx, runtime.Command{
		Path:   argv[0],
		Args:   argv[1:],
		Env:    d.Env,
		Dir:    d.WorkDir,
		Stdout: w,
		Stderr: w,
	}); err != nil {
		return &BuildError{Name: d.Name, Target: d.Target, Command: d.BuildCommand, Output: output.String(), Err: err}
	}

	info, err := os.Stat(d.OutputPath())
	if err == nil && !info.Mode().IsRegular() {
		err = errors.New("not a regular file")
	}
	if err != nil {
		return &BuildError{
			Name:    d.Name,
			Target:  d.Target,
			Command: d.BuildCommand,
			Output:  output.String(),
			Err:     fmt.Errorf("toolchain did not produce %s: %w", d.OutputPath(), err),
		}
	}
	return nil
}

// current reports whether rec describes a committed artifact for key.
func current(rec *record, key, artifactPath string) bool {
	if rec == nil || rec.Key != key {
		return false
	}
	info, err := os.Stat(artifactPath)
	return err == nil && info.Mode().IsRegular()
}

// commitArtifact copies the toolchain output over the cached artifact.
func commitArtifact(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open build output: %w", err)
	}
	defer func() { _ = f.Close() }() // Read-only file; close error non-critical

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat build output: %w", err)
	}
	return cache.CommitFile(dst, info.Mode().Perm()|0o500, func(w io.Writer) error {
		_, err := io.Copy(w, f)
		return err
	})
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
