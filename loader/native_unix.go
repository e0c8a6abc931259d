//go:build darwin || linux || freebsd

package loader

import (
	"context"
	"sync"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/wippyai/bindings/errors"
)

type nativeModule struct {
	sum    func(int32, int32) int32
	repeat func(uint32) uint32
	path   string
	handle uintptr
	mu     sync.RWMutex
	closed bool
}

func openNative(req Request) (Module, error) {
	handle, err := purego.Dlopen(req.Path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidArtifact).
			Target(req.Target.Identifier()).
			Path(req.Path).
			Detail("dlopen").
			Cause(err).
			Build()
	}

	for _, sym := range RequiredExports {
		if _, err := purego.Dlsym(handle, sym); err != nil {
			_ = purego.Dlclose(handle)
			missing := errors.MissingExport(req.Target.Identifier(), sym)
			missing.Path = req.Path
			missing.Cause = err
			return nil, missing
		}
	}

	m := &nativeModule{handle: handle, path: req.Path}
	purego.RegisterLibFunc(&m.sum, handle, SymbolSum)
	purego.RegisterLibFunc(&m.repeat, handle, SymbolRepeater)

	Logger().Debug("native artifact opened", zap.String("path", req.Path))
	return m, nil
}

func (m *nativeModule) Sum(_ context.Context, a, b int32) (int32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, errors.Closed("native module " + m.path)
	}
	return m.sum(a, b), nil
}

func (m *nativeModule) Repeat(_ context.Context, tick uint32) (uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, errors.Closed("native module " + m.path)
	}
	return m.repeat(tick), nil
}

func (m *nativeModule) Exports() []string {
	return []string{SymbolRepeater, SymbolSum}
}

func (m *nativeModule) Close(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return purego.Dlclose(m.handle)
}
