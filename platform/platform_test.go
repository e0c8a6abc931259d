package platform

import (
	stderrors "errors"
	"io/fs"
	"regexp"
	"testing"

	"github.com/wippyai/bindings/errors"
)

var identifierPattern = regexp.MustCompile(`^(android|win32|darwin|freebsd|linux)-(x64|ia32|arm64|arm)(-(msvc|gnu|musl|gnueabihf))?$`)

func TestTargets_Identifiers(t *testing.T) {
	want := []string{
		"android-arm64",
		"win32-x64-msvc",
		"win32-ia32-msvc",
		"win32-arm64-msvc",
		"darwin-x64",
		"darwin-arm64",
		"freebsd-x64",
		"linux-x64-gnu",
		"linux-x64-musl",
		"linux-arm64-gnu",
		"linux-arm64-musl",
		"linux-arm-gnueabihf",
	}

	targets := Targets()
	if len(targets) != len(want) {
		t.Fatalf("expected %d targets, got %d", len(want), len(targets))
	}

	seen := make(map[string]bool)
	for i, target := range targets {
		id := target.Identifier()
		if id != want[i] {
			t.Errorf("target %d: expected %q, got %q", i, want[i], id)
		}
		if !identifierPattern.MatchString(id) {
			t.Errorf("identifier %q is not well-formed", id)
		}
		if seen[id] {
			t.Errorf("identifier %q appears twice", id)
		}
		seen[id] = true

		parsed, ok := ParseIdentifier(id)
		if !ok || parsed != target {
			t.Errorf("ParseIdentifier(%q) = %v, %v", id, parsed, ok)
		}
	}
}

func TestTarget_Unknown(t *testing.T) {
	if TargetUnknown.Valid() {
		t.Error("TargetUnknown should not be valid")
	}
	if TargetUnknown.Identifier() != "" {
		t.Errorf("expected empty identifier, got %q", TargetUnknown.Identifier())
	}
	if Target(999).Valid() {
		t.Error("out of range target should not be valid")
	}
	if TargetUnknown.String() != "unknown" {
		t.Errorf("unexpected String(): %q", TargetUnknown.String())
	}
	if _, ok := ParseIdentifier("plan9-x64"); ok {
		t.Error("ParseIdentifier accepted unknown identifier")
	}
}

func TestResolve_SupportedMatrix(t *testing.T) {
	gnu := LibcProbeFunc(func() (bool, error) { return false, nil })

	tests := []struct {
		host Host
		want string
	}{
		{Host{"android", "arm64"}, "android-arm64"},
		{Host{"win32", "x64"}, "win32-x64-msvc"},
		{Host{"win32", "ia32"}, "win32-ia32-msvc"},
		{Host{"win32", "arm64"}, "win32-arm64-msvc"},
		{Host{"darwin", "x64"}, "darwin-x64"},
		{Host{"darwin", "arm64"}, "darwin-arm64"},
		{Host{"freebsd", "x64"}, "freebsd-x64"},
		{Host{"linux", "x64"}, "linux-x64-gnu"},
		{Host{"linux", "arm64"}, "linux-arm64-gnu"},
		{Host{"linux", "arm"}, "linux-arm-gnueabihf"},
		// Go vocabulary
		{Host{"windows", "amd64"}, "win32-x64-msvc"},
		{Host{"windows", "386"}, "win32-ia32-msvc"},
		{Host{"linux", "amd64"}, "linux-x64-gnu"},
		{Host{"darwin", "amd64"}, "darwin-x64"},
	}

	for _, tt := range tests {
		t.Run(tt.host.OS+"/"+tt.host.Arch, func(t *testing.T) {
			target, err := Resolve(tt.host, gnu)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got := target.Identifier(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestResolve_Unsupported(t *testing.T) {
	tests := []struct {
		host     Host
		sentinel error
		message  string
	}{
		{Host{"plan9", "x64"}, errors.ErrUnsupportedOS, "Unsupported OS: plan9, architecture: x64"},
		{Host{"aix", "ppc64"}, errors.ErrUnsupportedOS, "Unsupported OS: aix, architecture: ppc64"},
		{Host{"android", "x64"}, errors.ErrUnsupportedArch, "Unsupported architecture on Android x64"},
		{Host{"win32", "arm"}, errors.ErrUnsupportedArch, "Unsupported architecture on Windows: arm"},
		{Host{"darwin", "ia32"}, errors.ErrUnsupportedArch, "Unsupported architecture on macOS: ia32"},
		{Host{"freebsd", "arm64"}, errors.ErrUnsupportedArch, "Unsupported architecture on FreeBSD: arm64"},
		{Host{"linux", "riscv64"}, errors.ErrUnsupportedArch, "Unsupported architecture on Linux: riscv64"},
	}

	for _, tt := range tests {
		t.Run(tt.host.OS+"/"+tt.host.Arch, func(t *testing.T) {
			probed := false
			probe := LibcProbeFunc(func() (bool, error) {
				probed = true
				return false, nil
			})

			target, err := Resolve(tt.host, probe)
			if err == nil {
				t.Fatalf("expected error, got target %v", target)
			}
			if target != TargetUnknown {
				t.Errorf("expected TargetUnknown, got %v", target)
			}
			if !stderrors.Is(err, tt.sentinel) {
				t.Errorf("expected %v, got %v", tt.sentinel, err)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) || e.Detail != tt.message {
				t.Errorf("expected message %q, got %v", tt.message, err)
			}
			if probed {
				t.Error("libc probe must not run for unsupported platforms")
			}
		})
	}
}

func TestResolve_UnsupportedBeforeFilesystem(t *testing.T) {
	mock := NewMockFS()
	mock.AddFile(DefaultLinkerPath, []byte("musl"))

	_, err := Resolve(Host{"plan9", "x64"}, NewLinkerProbe(mock, ""))
	if !stderrors.Is(err, errors.ErrUnsupportedOS) {
		t.Fatalf("expected unsupported OS, got %v", err)
	}
	if mock.Calls() != 0 {
		t.Errorf("expected no filesystem access, got stat=%v read=%v", mock.StatCalls, mock.ReadCalls)
	}
}

func TestResolve_LinuxLibc(t *testing.T) {
	tests := []struct {
		arch   string
		linker string
		want   string
	}{
		{"x64", "#!/bin/sh\n# musl libc (x86_64)\nexec /lib/ld-musl-x86_64.so.1 --list \"$@\"\n", "linux-x64-musl"},
		{"x64", "#!/bin/bash\nTEXTDOMAIN=libc\nRTLDLIST=\"/lib64/ld-linux-x86-64.so.2\"\n", "linux-x64-gnu"},
		{"arm64", "...musl...", "linux-arm64-musl"},
		{"arm64", "GNU C Library", "linux-arm64-gnu"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			mock := NewMockFS()
			mock.AddFile(DefaultLinkerPath, []byte(tt.linker))

			target, err := Resolve(Host{"linux", tt.arch}, NewLinkerProbe(mock, ""))
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got := target.Identifier(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if len(mock.ReadCalls) != 1 || mock.ReadCalls[0] != DefaultLinkerPath {
				t.Errorf("expected one read of %s, got %v", DefaultLinkerPath, mock.ReadCalls)
			}
		})
	}
}

func TestResolve_ProbeSkipped(t *testing.T) {
	hosts := []Host{
		{"linux", "arm"},
		{"darwin", "arm64"},
		{"win32", "x64"},
		{"freebsd", "x64"},
		{"android", "arm64"},
	}

	for _, host := range hosts {
		mock := NewMockFS()
		if _, err := Resolve(host, NewLinkerProbe(mock, "")); err != nil {
			t.Fatalf("%v: Resolve failed: %v", host, err)
		}
		if mock.Calls() != 0 {
			t.Errorf("%v: expected no linker read, got %v", host, mock.ReadCalls)
		}
		if NeedsLibcProbe(host) {
			t.Errorf("%v: NeedsLibcProbe should be false", host)
		}
	}

	if !NeedsLibcProbe(Host{"linux", "x64"}) || !NeedsLibcProbe(Host{"linux", "arm64"}) {
		t.Error("linux x64/arm64 need a libc probe")
	}
}

func TestResolve_ProbeError(t *testing.T) {
	mock := NewMockFS()
	mock.ReadErrors[DefaultLinkerPath] = fs.ErrPermission

	_, err := Resolve(Host{"linux", "x64"}, NewLinkerProbe(mock, ""))
	if err == nil {
		t.Fatal("expected error")
	}
	if !stderrors.Is(err, errors.ErrLibcProbe) {
		t.Errorf("expected libc probe error, got %v", err)
	}
	if !stderrors.Is(err, fs.ErrPermission) {
		t.Errorf("expected permission cause, got %v", err)
	}
}

func TestResolve_ProbeMissingLinker(t *testing.T) {
	_, err := Resolve(Host{"linux", "arm64"}, NewLinkerProbe(NewMockFS(), "/lib/ld-musl-aarch64.so.1"))
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist cause, got %v", err)
	}
}

func TestResolve_NilProbe(t *testing.T) {
	_, err := Resolve(Host{"linux", "x64"}, nil)
	if err == nil {
		t.Fatal("expected error for nil probe on linux/x64")
	}

	target, err := Resolve(Host{"darwin", "arm64"}, nil)
	if err != nil || target != DarwinArm64 {
		t.Errorf("darwin must resolve without a probe: %v %v", target, err)
	}
}

func TestNormalize(t *testing.T) {
	if NormalizeOS("windows") != "win32" {
		t.Error("windows should map to win32")
	}
	if NormalizeOS("plan9") != "plan9" {
		t.Error("unknown OS must pass through")
	}
	if NormalizeArch("amd64") != "x64" || NormalizeArch("386") != "ia32" {
		t.Error("Go arch names should map to identifier tags")
	}
	if NormalizeArch("riscv64") != "riscv64" {
		t.Error("unknown arch must pass through")
	}
}

func TestCurrent(t *testing.T) {
	host := Current()
	if host.OS == "" || host.Arch == "" {
		t.Errorf("Current returned empty facts: %+v", host)
	}
	if host.OS == "windows" || host.Arch == "amd64" {
		t.Errorf("Current should use identifier vocabulary: %+v", host)
	}
}
