// Package loader finds, opens and checks binding artifacts for a platform
// target.
//
// For a target with identifier ID the loader derives two candidates:
//
//	local file   <dir>/bindings.ID.node
//	package      <path>/bindings-ID/   (first match across package paths)
//
// If the local file exists it is opened and the package is never consulted.
// Otherwise the package directory is resolved; an optional package.yaml
// may name the main artifact and restrict os, cpu and libc:
//
//	name: bindings-linux-x64-musl
//	version: 1.4.0
//	main: bindings.linux-x64-musl.node
//	os: [linux]
//	cpu: [x64]
//	libc: [musl]
//
// Artifacts are dispatched on content. WebAssembly modules run on wazero
// (package engine); ELF and Mach-O shared objects are opened with purego on
// darwin, linux and freebsd.
//
// Every loaded artifact must export sum and JsRepeater. An artifact missing
// either is closed and rejected with errors.ErrMissingExport.
//
// Each Load call is traced with an OpenTelemetry span named "loader.Load".
package loader
