package bindings

import (
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wippyai/bindings/config"
	"github.com/wippyai/bindings/loader"
	"github.com/wippyai/bindings/platform"
)

type options struct {
	cfg      *config.Config
	host     *platform.Host
	fs       platform.FS
	probe    platform.LibcProbe
	logger   *zap.Logger
	tp       trace.TracerProvider
	backends []loader.Backend
}

// Option configures New
type Option func(*options)

// WithConfig sets the configuration. Defaults are used otherwise.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithHost replaces the process-reported host facts and any os/arch
// override from the configuration.
func WithHost(host platform.Host) Option {
	return func(o *options) { o.host = &host }
}

// WithFS sets the filesystem used for the libc probe and artifact lookup
func WithFS(fsys platform.FS) Option {
	return func(o *options) { o.fs = fsys }
}

// WithLibcProbe replaces the dynamic linker probe
func WithLibcProbe(probe platform.LibcProbe) Option {
	return func(o *options) { o.probe = probe }
}

// WithLogger sets the logger used by the Binding and its repeaters
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTracerProvider sets the provider for load spans
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tp = tp }
}

// WithBackends replaces the artifact backends
func WithBackends(backends ...loader.Backend) Option {
	return func(o *options) { o.backends = backends }
}
