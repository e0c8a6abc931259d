package engine

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/bindings/bindingstest"
	"github.com/wippyai/bindings/errors"
)

func TestNewWithConfig(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		cfg  *Config
		name string
	}{
		{nil, "nil config"},
		{&Config{}, "default config"},
		{&Config{MemoryLimitPages: 256}, "16MB limit"},
		{&Config{Interpreter: true}, "interpreter"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eng, err := NewWithConfig(ctx, tc.cfg)
			if err != nil {
				t.Fatalf("NewWithConfig failed: %v", err)
			}
			defer eng.Close(ctx)

			if eng.runtime == nil {
				t.Error("engine runtime should not be nil")
			}
		})
	}
}

func TestIsWasm(t *testing.T) {
	if !IsWasm(bindingstest.Binding()) {
		t.Error("fixture should be detected as wasm")
	}
	if IsWasm([]byte("\x7fELF\x02\x01\x01")) {
		t.Error("ELF header detected as wasm")
	}
	if IsWasm(nil) {
		t.Error("empty input detected as wasm")
	}
}

func TestEngine_LoadAndCall(t *testing.T) {
	ctx := context.Background()

	eng, err := New(ctx)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer eng.Close(ctx)

	mod, err := eng.Load(ctx, bindingstest.Binding())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer mod.Close(ctx)

	exports := mod.Exports()
	if len(exports) != 2 || exports[0] != "JsRepeater" || exports[1] != "sum" {
		t.Errorf("unexpected exports: %v", exports)
	}

	results, err := mod.Call(ctx, "sum", api.EncodeI32(40), api.EncodeI32(2))
	if err != nil {
		t.Fatalf("Call sum failed: %v", err)
	}
	if got := api.DecodeI32(results[0]); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}

	results, err = mod.Call(ctx, "sum", api.EncodeI32(-5), api.EncodeI32(3))
	if err != nil {
		t.Fatalf("Call sum failed: %v", err)
	}
	if got := api.DecodeI32(results[0]); got != -2 {
		t.Errorf("expected -2, got %d", got)
	}

	results, err = mod.Call(ctx, "JsRepeater", api.EncodeU32(7))
	if err != nil {
		t.Fatalf("Call JsRepeater failed: %v", err)
	}
	if got := api.DecodeU32(results[0]); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
}

func TestModule_Signature(t *testing.T) {
	ctx := context.Background()

	eng, err := New(ctx)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer eng.Close(ctx)

	mod, err := eng.Load(ctx, bindingstest.Binding())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	sig, ok := mod.Signature("sum")
	if !ok {
		t.Fatal("sum signature missing")
	}
	if sig.String() != "(i32, i32) -> i32" {
		t.Errorf("unexpected signature %s", sig)
	}
	want := Signature{
		Params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
		Results: []api.ValueType{api.ValueTypeI32},
	}
	if !sig.Equal(want) {
		t.Errorf("signature %s != %s", sig, want)
	}

	if _, ok := mod.Signature("missing"); ok {
		t.Error("unexpected signature for missing export")
	}
}

func TestSignature_String(t *testing.T) {
	tests := []struct {
		sig  Signature
		want string
	}{
		{Signature{}, "() -> ()"},
		{Signature{Params: []api.ValueType{api.ValueTypeI64}, Results: []api.ValueType{api.ValueTypeF64}}, "(i64) -> f64"},
		{Signature{Results: []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}}, "() -> (i32, i32)"},
	}
	for _, tt := range tests {
		if got := tt.sig.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestEngine_LoadErrors(t *testing.T) {
	ctx := context.Background()

	eng, err := New(ctx)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer eng.Close(ctx)

	tests := []struct {
		name string
		data []byte
	}{
		{"not wasm", []byte("\x7fELF")},
		{"truncated", bindingstest.Binding()[:12]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.Load(ctx, tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, errors.ErrInvalidArtifact) {
				t.Errorf("expected invalid artifact, got %v", err)
			}
		})
	}
}

func TestModule_CallErrors(t *testing.T) {
	ctx := context.Background()

	eng, err := New(ctx)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer eng.Close(ctx)

	wasm := bindingstest.Module(
		bindingstest.SumFunc(),
		bindingstest.TrapFunc("boom", nil, []api.ValueType{api.ValueTypeI32}),
	)
	mod, err := eng.Load(ctx, wasm)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, err := mod.Call(ctx, "missing"); err == nil {
		t.Error("expected error for missing export")
	}

	_, err = mod.Call(ctx, "boom")
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindCallFailed || e.Symbol != "boom" {
		t.Errorf("expected call_failed for boom, got %v", err)
	}

	if err := mod.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := mod.Close(ctx); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
	if _, err := mod.Call(ctx, "sum", 1, 2); !stderrors.Is(err, errors.ErrClosed) {
		t.Errorf("expected closed error, got %v", err)
	}
}

func TestModule_ConcurrentCalls(t *testing.T) {
	ctx := context.Background()

	eng, err := New(ctx)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer eng.Close(ctx)

	mod, err := eng.Load(ctx, bindingstest.Binding())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int32) {
			defer wg.Done()
			res, err := mod.Call(ctx, "sum", api.EncodeI32(n), api.EncodeI32(n))
			if err != nil {
				errs <- err
				return
			}
			if got := api.DecodeI32(res[0]); got != 2*n {
				errs <- errors.InvalidInput(errors.PhaseCall, "wrong result")
			}
		}(int32(i))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestEngine_MultipleModules(t *testing.T) {
	ctx := context.Background()

	eng, err := New(ctx)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer eng.Close(ctx)

	for i := 0; i < 3; i++ {
		mod, err := eng.Load(ctx, bindingstest.Binding())
		if err != nil {
			t.Fatalf("Load %d failed: %v", i, err)
		}
		defer mod.Close(ctx)
	}
}
