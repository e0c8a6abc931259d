// Package bindingstest builds small WebAssembly binding artifacts for tests.
package bindingstest

import (
	"github.com/tetratelabs/wazero/api"
)

// Opcodes used by the fixture bodies
const (
	OpUnreachable byte = 0x00
	OpLocalGet    byte = 0x20
	OpI32Const    byte = 0x41
	OpI32Add      byte = 0x6a
	OpI32Mul      byte = 0x6c
	opEnd         byte = 0x0b
)

// Func is one exported function of a generated module
type Func struct {
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
	Body    []byte
}

// SumFunc exports sum(a, b i32) i32 = a + b
func SumFunc() Func {
	return Func{
		Name:    "sum",
		Params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
		Results: []api.ValueType{api.ValueTypeI32},
		Body:    []byte{OpLocalGet, 0, OpLocalGet, 1, OpI32Add},
	}
}

// RepeaterFunc exports JsRepeater(tick i32) i32 = tick
func RepeaterFunc() Func {
	return Func{
		Name:    "JsRepeater",
		Params:  []api.ValueType{api.ValueTypeI32},
		Results: []api.ValueType{api.ValueTypeI32},
		Body:    []byte{OpLocalGet, 0},
	}
}

// ScaledRepeaterFunc exports JsRepeater(tick i32) i32 = tick * factor.
// factor must be below 64 to fit a single-byte signed LEB128.
func ScaledRepeaterFunc(factor byte) Func {
	f := RepeaterFunc()
	f.Body = []byte{OpLocalGet, 0, OpI32Const, factor & 0x3f, OpI32Mul}
	return f
}

// TrapFunc exports a function of the given shape whose body traps
func TrapFunc(name string, params, results []api.ValueType) Func {
	return Func{Name: name, Params: params, Results: results, Body: []byte{OpUnreachable}}
}

// Binding returns a module exporting both sum and JsRepeater
func Binding() []byte {
	return Module(SumFunc(), RepeaterFunc())
}

// Module encodes a core module with one type and one export per function
func Module(funcs ...Func) []byte {
	out := []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}

	var types []byte
	types = appendU32(types, uint32(len(funcs)))
	for _, f := range funcs {
		types = append(types, 0x60)
		types = appendU32(types, uint32(len(f.Params)))
		types = append(types, f.Params...)
		types = appendU32(types, uint32(len(f.Results)))
		types = append(types, f.Results...)
	}

	var fnsec []byte
	fnsec = appendU32(fnsec, uint32(len(funcs)))
	for i := range funcs {
		fnsec = appendU32(fnsec, uint32(i))
	}

	var exports []byte
	exports = appendU32(exports, uint32(len(funcs)))
	for i, f := range funcs {
		exports = appendU32(exports, uint32(len(f.Name)))
		exports = append(exports, f.Name...)
		exports = append(exports, 0x00)
		exports = appendU32(exports, uint32(i))
	}

	var code []byte
	code = appendU32(code, uint32(len(funcs)))
	for _, f := range funcs {
		body := append([]byte{0x00}, f.Body...)
		body = append(body, opEnd)
		code = appendU32(code, uint32(len(body)))
		code = append(code, body...)
	}

	out = appendSection(out, 1, types)
	out = appendSection(out, 3, fnsec)
	out = appendSection(out, 7, exports)
	out = appendSection(out, 10, code)
	return out
}

func appendSection(dst []byte, id byte, payload []byte) []byte {
	dst = append(dst, id)
	dst = appendU32(dst, uint32(len(payload)))
	return append(dst, payload...)
}

func appendU32(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			dst = append(dst, b|0x80)
			continue
		}
		return append(dst, b)
	}
}
