package loader

import (
	"context"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wippyai/bindings/engine"
	"github.com/wippyai/bindings/errors"
	"github.com/wippyai/bindings/platform"
)

const tracerName = "github.com/wippyai/bindings/loader"

// Span attribute keys
const (
	AttrIdentifier = attribute.Key("bindings.identifier")
	AttrSource     = attribute.Key("bindings.source")
	AttrPath       = attribute.Key("bindings.path")
	AttrBackend    = attribute.Key("bindings.backend")
)

// Source tells where a loaded artifact came from
type Source string

const (
	SourceLocal   Source = "local"
	SourcePackage Source = "package"
)

// Loaded is a successfully opened artifact
type Loaded struct {
	Module  Module
	Source  Source
	Path    string
	Backend string
	Target  platform.Target
}

// Loader finds and opens binding artifacts for a target
type Loader struct {
	fs       platform.FS
	tracer   trace.Tracer
	dir      string
	prefix   string
	ext      string
	paths    []string
	backends []Backend
}

// Option configures a Loader
type Option func(*Loader)

// WithFS sets the filesystem used for lookups and reads
func WithFS(fsys platform.FS) Option {
	return func(l *Loader) { l.fs = fsys }
}

// WithDir sets the directory holding local artifacts
func WithDir(dir string) Option {
	return func(l *Loader) { l.dir = dir }
}

// WithPrefix sets the artifact name prefix
func WithPrefix(prefix string) Option {
	return func(l *Loader) { l.prefix = prefix }
}

// WithExtension sets the local artifact extension, including the dot
func WithExtension(ext string) Option {
	return func(l *Loader) { l.ext = ext }
}

// WithPackagePaths sets the directories searched for companion packages
func WithPackagePaths(paths ...string) Option {
	return func(l *Loader) { l.paths = append([]string(nil), paths...) }
}

// WithBackends replaces the artifact backends
func WithBackends(backends ...Backend) Option {
	return func(l *Loader) { l.backends = backends }
}

// WithEngineConfig configures the default wasm backend
func WithEngineConfig(cfg *engine.Config) Option {
	return func(l *Loader) { l.backends = DefaultBackends(cfg) }
}

// WithTracerProvider sets the provider for load spans
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(l *Loader) { l.tracer = tp.Tracer(tracerName) }
}

// New creates a loader. Without options it looks in the working directory
// and ./packages on the host filesystem.
func New(opts ...Option) *Loader {
	l := &Loader{
		fs:       platform.OSFS{},
		tracer:   otel.Tracer(tracerName),
		dir:      ".",
		prefix:   DefaultPrefix,
		ext:      DefaultExtension,
		backends: DefaultBackends(nil),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.paths == nil {
		l.paths = []string{filepath.Join(l.dir, "packages")}
	}
	return l
}

// Candidates returns the artifact names for target
func (l *Loader) Candidates(target platform.Target) Candidate {
	return Candidates(l.prefix, l.ext, target)
}

// LocalPath returns where the local artifact for target would live
func (l *Loader) LocalPath(target platform.Target) string {
	return filepath.Join(l.dir, l.Candidates(target).File)
}

// Load opens the artifact for target.
//
// A local file next to the loader wins; otherwise the companion package is
// looked up. Only one of the two is attempted. The first error raised while
// opening is returned unchanged. When nothing loaded and nothing failed, the
// generic "failed to load native binding" error is returned.
func (l *Loader) Load(ctx context.Context, target platform.Target) (_ *Loaded, err error) {
	if !target.Valid() {
		return nil, errors.InvalidInput(errors.PhaseLoad, "invalid target")
	}

	id := target.Identifier()
	ctx, span := l.tracer.Start(ctx, "loader.Load", trace.WithAttributes(AttrIdentifier.String(id)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, strings.TrimSpace(err.Error()))
		}
		span.End()
	}()

	log := Logger().With(zap.String("identifier", id))
	c := l.Candidates(target)

	var (
		mod     Module
		loadErr error
		source  Source
		path    string
		backend string
	)

	localPath := filepath.Join(l.dir, c.File)
	if _, statErr := l.fs.Stat(localPath); statErr == nil {
		source, path = SourceLocal, localPath
		log.Debug("local artifact found", zap.String("path", path))
		mod, backend, loadErr = l.open(ctx, target, path)
	} else {
		source = SourcePackage
		log.Debug("local artifact absent, resolving package", zap.String("package", c.Package))
		path, loadErr = l.resolvePackage(target, c)
		if loadErr == nil {
			mod, backend, loadErr = l.open(ctx, target, path)
		}
	}

	span.SetAttributes(AttrSource.String(string(source)), AttrPath.String(path))

	if mod != nil && loadErr != nil {
		_ = mod.Close(ctx)
		mod = nil
	}
	if mod == nil {
		if loadErr != nil {
			log.Debug("binding load failed", zap.Error(loadErr))
			return nil, loadErr
		}
		return nil, errors.LoadFailed()
	}

	if err := checkContract(target, mod); err != nil {
		_ = mod.Close(ctx)
		return nil, err
	}

	span.SetAttributes(AttrBackend.String(backend))
	log.Info("binding loaded",
		zap.String("source", string(source)),
		zap.String("path", path),
		zap.String("backend", backend))

	return &Loaded{
		Module:  mod,
		Source:  source,
		Path:    path,
		Backend: backend,
		Target:  target,
	}, nil
}

// open reads path and hands it to the first backend accepting its contents
func (l *Loader) open(ctx context.Context, target platform.Target, path string) (Module, string, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, "", errors.New(errors.PhaseLoad, errors.KindIO).
			Target(target.Identifier()).
			Path(path).
			Detail("read artifact").
			Cause(err).
			Build()
	}

	for _, b := range l.backends {
		if !b.Accepts(data) {
			continue
		}
		mod, err := b.Open(ctx, Request{Path: path, Data: data, Target: target})
		return mod, b.Name(), err
	}

	unsupported := errors.UnsupportedBackend(path, "unrecognized artifact format")
	unsupported.Target = target.Identifier()
	return nil, "", unsupported
}

// resolvePackage finds the companion package directory and returns the path
// of its main artifact
func (l *Loader) resolvePackage(target platform.Target, c Candidate) (string, error) {
	for _, root := range l.paths {
		dir := filepath.Join(root, c.Package)
		info, err := l.fs.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}

		m, err := readManifest(l.fs, dir)
		if err != nil {
			return "", err
		}
		if err := m.check(dir, c.Package, target); err != nil {
			return "", err
		}

		entry := m.Main
		if entry == "" {
			entry = c.File
		}
		Logger().Debug("package found",
			zap.String("package", c.Package),
			zap.String("dir", dir),
			zap.String("version", m.Version))
		return filepath.Join(dir, entry), nil
	}

	return "", errors.NotFound("package", c.Package)
}
