package loader

import (
	"bytes"
	"context"

	"github.com/wippyai/bindings/engine"
	"github.com/wippyai/bindings/platform"
)

// Request describes one artifact to open
type Request struct {
	Path   string
	Data   []byte
	Target platform.Target
}

// Backend opens one artifact format
type Backend interface {
	Name() string
	// Accepts reports whether data looks like this backend's format.
	Accepts(data []byte) bool
	Open(ctx context.Context, req Request) (Module, error)
}

// WasmBackend opens WebAssembly core modules with wazero
type WasmBackend struct {
	Config *engine.Config
}

func (WasmBackend) Name() string { return "wasm" }

func (WasmBackend) Accepts(data []byte) bool { return engine.IsWasm(data) }

func (b WasmBackend) Open(ctx context.Context, req Request) (Module, error) {
	mod, err := newWasmModule(ctx, b.Config, req)
	if err != nil {
		return nil, err
	}
	return mod, nil
}

// NativeBackend opens shared objects through the platform dynamic loader
type NativeBackend struct{}

func (NativeBackend) Name() string { return "native" }

var nativeMagics = [][]byte{
	{0x7f, 'E', 'L', 'F'},    // ELF
	{0xfe, 0xed, 0xfa, 0xce}, // Mach-O 32
	{0xfe, 0xed, 0xfa, 0xcf}, // Mach-O 64
	{0xce, 0xfa, 0xed, 0xfe}, // Mach-O 32, little endian
	{0xcf, 0xfa, 0xed, 0xfe}, // Mach-O 64, little endian
	{0xca, 0xfe, 0xba, 0xbe}, // Mach-O universal
	{'M', 'Z'},               // PE
}

func (NativeBackend) Accepts(data []byte) bool {
	for _, magic := range nativeMagics {
		if bytes.HasPrefix(data, magic) {
			return true
		}
	}
	return false
}

func (NativeBackend) Open(_ context.Context, req Request) (Module, error) {
	return openNative(req)
}

// DefaultBackends returns the wasm and native backends in dispatch order
func DefaultBackends(cfg *engine.Config) []Backend {
	return []Backend{WasmBackend{Config: cfg}, NativeBackend{}}
}
