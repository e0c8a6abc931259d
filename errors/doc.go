// Package errors provides structured error types for the bindings loader.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the platform identifier, path or package name, export
// symbol and cause chain involved.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLoad, errors.KindInvalidArtifact).
//		Target("linux-x64-gnu").
//		Path("/opt/app/bindings.linux-x64-gnu.node").
//		Detail("truncated module").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnsupportedOS("plan9", "x64")
//	err := errors.MissingExport("darwin-arm64", "sum")
//
// All errors implement the standard error interface and support errors.Is/As.
// The package-level Err* values are sentinels matched on Phase and Kind:
//
//	if errors.Is(err, errors.ErrUnsupportedOS) { ... }
package errors
