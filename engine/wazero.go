package engine

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/bindings/errors"
)

var wasmMagic = []byte{0x00, 'a', 's', 'm'}

// IsWasm reports whether data starts with the WebAssembly binary magic
func IsWasm(data []byte) bool {
	return bytes.HasPrefix(data, wasmMagic)
}

// Engine wraps a wazero runtime that hosts binding modules
type Engine struct {
	runtime  wazero.Runtime
	wasiMu   sync.Mutex
	wasiDone bool
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// Interpreter forces the interpreter instead of the compiler backend.
	Interpreter bool
}

// New creates an engine with default configuration
func New(ctx context.Context) (*Engine, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates an engine with custom configuration
func NewWithConfig(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()

	if cfg != nil {
		if cfg.Interpreter {
			runtimeCfg = wazero.NewRuntimeConfigInterpreter()
		}
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
	}

	return &Engine{runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg)}, nil
}

// Close releases the runtime and every module instantiated in it
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Load compiles and instantiates a core module. Start functions are not run.
// Modules importing wasi_snapshot_preview1 get the wazero WASI host.
func (e *Engine) Load(ctx context.Context, wasm []byte) (*Module, error) {
	if !IsWasm(wasm) {
		return nil, errors.Load("", "not a WebAssembly module", nil)
	}

	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("", "compile module", err)
	}

	if importsWASI(compiled) {
		if err := e.initWASI(ctx); err != nil {
			_ = compiled.Close(ctx)
			return nil, err
		}
	}

	mod, err := e.runtime.InstantiateModule(ctx, compiled,
		wazero.NewModuleConfig().WithName("").WithStartFunctions())
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, errors.Load("", "instantiate module", err)
	}

	exports := compiled.ExportedFunctions()
	names := make([]string, 0, len(exports))
	for name := range exports {
		names = append(names, name)
	}
	sort.Strings(names)

	Logger().Debug("module instantiated", zap.Strings("exports", names))

	return &Module{
		compiled: compiled,
		mod:      mod,
		defs:     exports,
		names:    names,
	}, nil
}

func (e *Engine) initWASI(ctx context.Context) error {
	e.wasiMu.Lock()
	defer e.wasiMu.Unlock()

	if e.wasiDone || e.runtime.Module(wasi_snapshot_preview1.ModuleName) != nil {
		e.wasiDone = true
		return nil
	}

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, e.runtime); err != nil {
		return errors.Load("", "instantiate WASI", err)
	}
	e.wasiDone = true
	return nil
}

func importsWASI(compiled wazero.CompiledModule) bool {
	for _, def := range compiled.ImportedFunctions() {
		if mod, _, ok := def.Import(); ok && mod == wasi_snapshot_preview1.ModuleName {
			return true
		}
	}
	return false
}

// Signature describes the core value types of an exported function
type Signature struct {
	Params  []api.ValueType
	Results []api.ValueType
}

// Equal reports whether two signatures have identical params and results
func (s Signature) Equal(o Signature) bool {
	return bytes.Equal(s.Params, o.Params) && bytes.Equal(s.Results, o.Results)
}

func (s Signature) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(api.ValueTypeName(p))
	}
	b.WriteString(") -> ")
	switch len(s.Results) {
	case 0:
		b.WriteString("()")
	case 1:
		b.WriteString(api.ValueTypeName(s.Results[0]))
	default:
		b.WriteByte('(')
		for i, r := range s.Results {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(api.ValueTypeName(r))
		}
		b.WriteByte(')')
	}
	return b.String()
}

// Module is an instantiated binding module.
// Calls are serialized; the module is safe for concurrent use.
type Module struct {
	compiled wazero.CompiledModule
	mod      api.Module
	defs     map[string]api.FunctionDefinition
	names    []string
	mu       sync.Mutex
	closed   bool
}

// Exports returns the exported function names in sorted order
func (m *Module) Exports() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Signature returns the signature of an exported function
func (m *Module) Signature(name string) (Signature, bool) {
	def, ok := m.defs[name]
	if !ok {
		return Signature{}, false
	}
	return Signature{Params: def.ParamTypes(), Results: def.ResultTypes()}, true
}

// Call invokes an exported function with raw core values
func (m *Module) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errors.Closed("module")
	}

	fn := m.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.New(errors.PhaseCall, errors.KindMissingExport).
			Symbol(name).
			Detail("function not exported").
			Build()
	}

	results, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, errors.CallFailed(name, err)
	}
	return results, nil
}

// Close releases the instance and its compiled code
func (m *Module) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	err := m.mod.Close(ctx)
	if cerr := m.compiled.Close(ctx); err == nil {
		err = cerr
	}
	return err
}
