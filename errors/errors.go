package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in resolution or loading the error occurred
type Phase string

const (
	PhaseDetect  Phase = "detect"  // host fact and libc probing
	PhaseResolve Phase = "resolve" // platform matrix lookup
	PhaseLoad    Phase = "load"    // artifact lookup and open
	PhaseBind    Phase = "bind"    // export contract check
	PhaseCall    Phase = "call"    // calling into a loaded binding
	PhaseConfig  Phase = "config"  // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupportedOS      Kind = "unsupported_os"
	KindUnsupportedArch    Kind = "unsupported_arch"
	KindIO                 Kind = "io"
	KindNotFound           Kind = "not_found"
	KindInvalidManifest    Kind = "invalid_manifest"
	KindInvalidArtifact    Kind = "invalid_artifact"
	KindUnsupportedBackend Kind = "unsupported_backend"
	KindMissingExport      Kind = "missing_export"
	KindSignatureMismatch  Kind = "signature_mismatch"
	KindLoadFailed         Kind = "load_failed"
	KindClosed             Kind = "closed"
	KindCallFailed         Kind = "call_failed"
	KindInvalidInput       Kind = "invalid_input"
)

// Sentinels for errors.Is. Matching is by Phase and Kind only.
var (
	ErrUnsupportedOS      = &Error{Phase: PhaseResolve, Kind: KindUnsupportedOS}
	ErrUnsupportedArch    = &Error{Phase: PhaseResolve, Kind: KindUnsupportedArch}
	ErrLibcProbe          = &Error{Phase: PhaseDetect, Kind: KindIO}
	ErrNotFound           = &Error{Phase: PhaseLoad, Kind: KindNotFound}
	ErrInvalidManifest    = &Error{Phase: PhaseLoad, Kind: KindInvalidManifest}
	ErrInvalidArtifact    = &Error{Phase: PhaseLoad, Kind: KindInvalidArtifact}
	ErrUnsupportedBackend = &Error{Phase: PhaseLoad, Kind: KindUnsupportedBackend}
	ErrLoadFailed         = &Error{Phase: PhaseLoad, Kind: KindLoadFailed}
	ErrMissingExport      = &Error{Phase: PhaseBind, Kind: KindMissingExport}
	ErrSignatureMismatch  = &Error{Phase: PhaseBind, Kind: KindSignatureMismatch}
	ErrClosed             = &Error{Phase: PhaseCall, Kind: KindClosed}
)

// Error is the structured error type used by the loader packages
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Target string
	Path   string
	Symbol string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Target != "" {
		b.WriteString(" for ")
		b.WriteString(e.Target)
	}
	if e.Symbol != "" {
		b.WriteString(" symbol ")
		b.WriteString(e.Symbol)
	}
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Target sets the platform identifier
func (b *Builder) Target(id string) *Builder {
	b.err.Target = id
	return b
}

// Path sets the filesystem path or package name involved
func (b *Builder) Path(path string) *Builder {
	b.err.Path = path
	return b
}

// Symbol sets the export name involved
func (b *Builder) Symbol(name string) *Builder {
	b.err.Symbol = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnsupportedOS creates the error raised for an operating system outside the matrix
func UnsupportedOS(os, arch string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnsupportedOS,
		Detail: fmt.Sprintf("Unsupported OS: %s, architecture: %s", os, arch),
	}
}

// UnsupportedArch creates the error raised for an architecture outside an
// operating system's allow-list. label is the human name of the OS
// ("Windows", "macOS", ...).
func UnsupportedArch(label, arch string) *Error {
	sep := ": "
	if label == "Android" {
		sep = " "
	}
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnsupportedArch,
		Detail: "Unsupported architecture on " + label + sep + arch,
	}
}

// LibcProbe creates an error for a failed dynamic linker read
func LibcProbe(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseDetect,
		Kind:   KindIO,
		Path:   path,
		Detail: "read dynamic linker",
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(what, name string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindNotFound,
		Path:   name,
		Detail: fmt.Sprintf("Cannot find %s '%s'", what, name),
	}
}

// Load creates an artifact loading error
func Load(path, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidArtifact,
		Path:   path,
		Detail: detail,
		Cause:  cause,
	}
}

// InvalidManifest creates a package manifest error
func InvalidManifest(path, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidManifest,
		Path:   path,
		Detail: detail,
		Cause:  cause,
	}
}

// UnsupportedBackend creates an error for artifacts this host cannot open
func UnsupportedBackend(path, what string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindUnsupportedBackend,
		Path:   path,
		Detail: what,
	}
}

// LoadFailed creates the generic error used when no artifact loaded and no
// underlying error was captured.
func LoadFailed() *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindLoadFailed,
		Detail: "failed to load native binding",
	}
}

// MissingExport creates an error for a binding that lacks a required symbol
func MissingExport(target, symbol string) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindMissingExport,
		Target: target,
		Symbol: symbol,
		Detail: "required export not found",
	}
}

// SignatureMismatch creates an error for an export with the wrong shape
func SignatureMismatch(symbol, want, got string) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindSignatureMismatch,
		Symbol: symbol,
		Detail: fmt.Sprintf("expected %s, got %s", want, got),
	}
}

// Closed creates an error for use of a released binding
func Closed(what string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindClosed,
		Detail: what + " is closed",
	}
}

// CallFailed wraps a failed call into a loaded binding
func CallFailed(symbol string, cause error) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindCallFailed,
		Symbol: symbol,
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
