// Package engine hosts WebAssembly binding artifacts on wazero.
//
// A binding artifact is a core module exporting plain numeric functions. The
// engine compiles and instantiates it without running start functions, and
// exposes the exports by name:
//
//	eng, err := engine.New(ctx)
//	if err != nil {
//	    return err
//	}
//	defer eng.Close(ctx)
//
//	mod, err := eng.Load(ctx, wasmBytes)
//	if err != nil {
//	    return err
//	}
//	res, err := mod.Call(ctx, "sum", api.EncodeI32(1), api.EncodeI32(2))
//
// Modules importing wasi_snapshot_preview1 are linked against the wazero
// WASI host, instantiated once per Engine.
//
// # Thread Safety
//
// Engine is safe for concurrent use. Module serializes calls with a mutex, so
// a loaded binding can be shared between goroutines.
package engine
