package bindings

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/bindings/config"
	"github.com/wippyai/bindings/engine"
	"github.com/wippyai/bindings/errors"
	"github.com/wippyai/bindings/loader"
	"github.com/wippyai/bindings/platform"
)

var (
	loadOnce sync.Once
	loaded   *Binding
	loadErr  error
	logger   atomic.Pointer[zap.Logger]
)

func init() {
	logger.Store(zap.NewNop())
}

// Logger returns the package logger. It is a no-op logger until SetLogger
// is called.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger configures the logger of this package and of the loader and
// engine packages. A nil logger restores the no-op logger.
func SetLogger(l *zap.Logger) {
	loader.SetLogger(l)
	engine.SetLogger(l)
	if l == nil {
		logger.Store(zap.NewNop())
		return
	}
	logger.Store(l.Named("bindings"))
}

// Load returns the process-wide Binding.
//
// The first call reads the configuration, resolves the host target and opens
// its artifact. Every later call returns the same outcome, including a
// failure; there is no retry.
func Load(ctx context.Context) (*Binding, error) {
	loadOnce.Do(func() {
		loaded, loadErr = load(context.WithoutCancel(ctx))
	})
	return loaded, loadErr
}

func load(ctx context.Context) (*Binding, error) {
	cfg, path, err := config.Load("")
	if err != nil {
		return nil, err
	}
	if path != "" {
		Logger().Debug("configuration loaded", zap.String("source", path))
	}
	return New(ctx, WithConfig(cfg))
}

// Sum calls sum on the process-wide Binding
func Sum(ctx context.Context, a, b int32) (int32, error) {
	bnd, err := Load(ctx)
	if err != nil {
		return 0, err
	}
	return bnd.Sum(ctx, a, b)
}

// NewJsRepeater starts a Repeater on the process-wide Binding
func NewJsRepeater(ctx context.Context, callback func(uint32), opts ...RepeaterOption) (*Repeater, error) {
	bnd, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	return bnd.NewRepeater(ctx, callback, opts...)
}

// Binding is a loaded artifact for the resolved platform target
type Binding struct {
	mod      loader.Module
	target   platform.Target
	source   loader.Source
	path     string
	backend  string
	interval time.Duration
	log      *zap.Logger

	mu        sync.Mutex
	closed    bool
	repeaters map[*Repeater]struct{}
}

// New resolves the target and loads its artifact without caching.
func New(ctx context.Context, opts ...Option) (*Binding, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := o.cfg
	if cfg == nil {
		cfg = config.Default()
	}
	fsys := o.fs
	if fsys == nil {
		fsys = platform.OSFS{}
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}

	host := hostFor(o.host, cfg)
	probe := o.probe
	if probe == nil {
		probe = platform.NewLinkerProbe(fsys, cfg.Loader.LinkerPath)
	}

	target, err := platform.Resolve(host, probe)
	if err != nil {
		return nil, err
	}
	log.Debug("platform resolved",
		zap.String("os", host.OS),
		zap.String("arch", host.Arch),
		zap.String("identifier", target.Identifier()))

	dir, err := cfg.ArtifactDir()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindIO, err, "locate artifact directory")
	}

	lopts := []loader.Option{
		loader.WithFS(fsys),
		loader.WithDir(dir),
		loader.WithPrefix(cfg.Loader.Prefix),
		loader.WithExtension(cfg.Loader.Extension),
		loader.WithPackagePaths(cfg.SearchPaths(dir)...),
	}
	if len(o.backends) > 0 {
		lopts = append(lopts, loader.WithBackends(o.backends...))
	} else {
		lopts = append(lopts, loader.WithEngineConfig(&engine.Config{
			MemoryLimitPages: cfg.Engine.MemoryLimitPages,
			Interpreter:      cfg.Engine.Interpreter,
		}))
	}
	if o.tp != nil {
		lopts = append(lopts, loader.WithTracerProvider(o.tp))
	}

	res, err := loader.New(lopts...).Load(ctx, target)
	if err != nil {
		return nil, err
	}

	interval := cfg.Repeater.Interval
	if interval <= 0 {
		interval = config.DefaultConfig.Repeater.Interval
	}

	return &Binding{
		mod:       res.Module,
		target:    res.Target,
		source:    res.Source,
		path:      res.Path,
		backend:   res.Backend,
		interval:  interval,
		log:       log.With(zap.String("identifier", res.Target.Identifier())),
		repeaters: make(map[*Repeater]struct{}),
	}, nil
}

// hostFor picks explicit host facts, else the process host with any
// configured override applied
func hostFor(explicit *platform.Host, cfg *config.Config) platform.Host {
	if explicit != nil {
		return *explicit
	}
	host := platform.Current()
	if cfg.Loader.OS != "" {
		host.OS = cfg.Loader.OS
	}
	if cfg.Loader.Arch != "" {
		host.Arch = cfg.Loader.Arch
	}
	return host
}

// Target returns the resolved platform target
func (b *Binding) Target() platform.Target { return b.target }

// Source reports whether the artifact came from a local file or a package
func (b *Binding) Source() loader.Source { return b.source }

// Path returns the artifact path
func (b *Binding) Path() string { return b.path }

// Backend names the backend that opened the artifact
func (b *Binding) Backend() string { return b.backend }

// Exports lists the symbols exported by the artifact
func (b *Binding) Exports() []string { return b.mod.Exports() }

// Sum calls the artifact's sum export
func (b *Binding) Sum(ctx context.Context, x, y int32) (int32, error) {
	if b.isClosed() {
		return 0, errors.Closed("binding")
	}
	return b.mod.Sum(ctx, x, y)
}

func (b *Binding) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Close stops every repeater started from b and releases the artifact.
// Calling Close more than once is safe.
func (b *Binding) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	repeaters := make([]*Repeater, 0, len(b.repeaters))
	for r := range b.repeaters {
		repeaters = append(repeaters, r)
	}
	b.mu.Unlock()

	for _, r := range repeaters {
		_ = r.Close()
	}
	b.log.Debug("binding closed", zap.Int("repeaters", len(repeaters)))
	return b.mod.Close(ctx)
}

func (b *Binding) track(r *Repeater) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	b.repeaters[r] = struct{}{}
	return true
}

func (b *Binding) untrack(r *Repeater) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.repeaters, r)
}
