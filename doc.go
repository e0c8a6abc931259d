// Package bindings resolves the running platform and loads the matching
// binding artifact, exposing its sum and JsRepeater exports to Go callers.
//
// # Resolution
//
// The host operating system and architecture are mapped onto one of a closed
// set of platform targets (see package platform). Unsupported combinations
// fail immediately. On linux x64 and arm64 the dynamic linker is read to tell
// musl from glibc.
//
// The target identifier names two candidates: a local file next to the
// executable, bindings.<id>.node, and a companion package directory,
// bindings-<id>. The local file is tried first; the package only when the
// file is absent (see package loader).
//
// # Quick Start
//
//	b, err := bindings.Load(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	n, err := b.Sum(ctx, 40, 2) // 42
//
//	r, err := b.NewRepeater(ctx, func(v uint32) {
//	    fmt.Println("tick", v)
//	})
//	defer r.Close()
//
// Load resolves once per process and caches the outcome, success or failure.
// New builds an uncached Binding and accepts options for tests and embedders.
//
// # Package Organization
//
//	bindings/            Load, New, Binding, Repeater
//	├── platform/        Host facts, target matrix, libc probe
//	├── loader/          Candidate lookup, manifests, backends
//	├── engine/          wazero host for WebAssembly artifacts
//	├── config/          YAML and environment configuration
//	├── errors/          Structured error types
//	├── bindingstest/    WebAssembly fixtures for tests
//	└── cmd/bindings/    Command-line inspector
//
// # Error Handling
//
// Errors are *errors.Error values carrying phase, kind, target and path.
// Use errors.Is with the sentinels in package errors:
//
//	if errors.Is(err, bindingserrors.ErrUnsupportedOS) { ... }
//
// The first error raised while opening an artifact is returned unchanged.
package bindings
