package loader

import (
	"context"
	stderrors "errors"
	"slices"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/bindings/engine"
	"github.com/wippyai/bindings/errors"
	"github.com/wippyai/bindings/platform"
)

// Names of the exports every binding artifact must provide
const (
	SymbolSum      = "sum"
	SymbolRepeater = "JsRepeater"
)

// RequiredExports lists the capability contract in check order
var RequiredExports = []string{SymbolSum, SymbolRepeater}

// Module is a loaded binding artifact satisfying the capability contract
type Module interface {
	// Sum calls the artifact's sum export.
	Sum(ctx context.Context, a, b int32) (int32, error)
	// Repeat calls the artifact's JsRepeater export for one tick and
	// returns the value to hand to the repeater callback.
	Repeat(ctx context.Context, tick uint32) (uint32, error)
	// Exports lists the symbols the artifact exposes.
	Exports() []string
	Close(ctx context.Context) error
}

// checkContract verifies that mod exports every required symbol
func checkContract(target platform.Target, mod Module) error {
	exports := mod.Exports()
	for _, sym := range RequiredExports {
		if !slices.Contains(exports, sym) {
			return errors.MissingExport(target.Identifier(), sym)
		}
	}
	return nil
}

var (
	sumSignature = engine.Signature{
		Params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
		Results: []api.ValueType{api.ValueTypeI32},
	}
	repeaterSignature = engine.Signature{
		Params:  []api.ValueType{api.ValueTypeI32},
		Results: []api.ValueType{api.ValueTypeI32},
	}
)

// wasmModule adapts an engine module to Module. It owns its engine.
type wasmModule struct {
	eng *engine.Engine
	mod *engine.Module
}

func newWasmModule(ctx context.Context, cfg *engine.Config, req Request) (*wasmModule, error) {
	eng, err := engine.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Load(req.Path, "create engine", err)
	}

	mod, err := eng.Load(ctx, req.Data)
	if err != nil {
		_ = eng.Close(ctx)
		var e *errors.Error
		if stderrors.As(err, &e) {
			e.Path = req.Path
			e.Target = req.Target.Identifier()
		}
		return nil, err
	}

	w := &wasmModule{eng: eng, mod: mod}
	if err := w.checkSignatures(req.Target); err != nil {
		_ = w.Close(ctx)
		return nil, err
	}
	return w, nil
}

// checkSignatures verifies the shapes of the required exports that are
// present. Absent exports are reported by the contract check.
func (w *wasmModule) checkSignatures(target platform.Target) error {
	for _, sym := range RequiredExports {
		want := sumSignature
		if sym == SymbolRepeater {
			want = repeaterSignature
		}
		got, ok := w.mod.Signature(sym)
		if !ok {
			continue
		}
		if !got.Equal(want) {
			err := errors.SignatureMismatch(sym, want.String(), got.String())
			err.Target = target.Identifier()
			return err
		}
	}
	return nil
}

func (w *wasmModule) Sum(ctx context.Context, a, b int32) (int32, error) {
	res, err := w.mod.Call(ctx, SymbolSum, api.EncodeI32(a), api.EncodeI32(b))
	if err != nil {
		return 0, err
	}
	return api.DecodeI32(res[0]), nil
}

func (w *wasmModule) Repeat(ctx context.Context, tick uint32) (uint32, error) {
	res, err := w.mod.Call(ctx, SymbolRepeater, api.EncodeU32(tick))
	if err != nil {
		return 0, err
	}
	return api.DecodeU32(res[0]), nil
}

func (w *wasmModule) Exports() []string {
	return w.mod.Exports()
}

func (w *wasmModule) Close(ctx context.Context) error {
	err := w.mod.Close(ctx)
	if cerr := w.eng.Close(ctx); err == nil {
		err = cerr
	}
	return err
}
