package platform

import (
	"runtime"
)

// OS is an operating system tag as used in platform identifiers
type OS string

const (
	OSAndroid OS = "android"
	OSWindows OS = "win32"
	OSDarwin  OS = "darwin"
	OSFreeBSD OS = "freebsd"
	OSLinux   OS = "linux"
)

// Arch is a CPU architecture tag as used in platform identifiers
type Arch string

const (
	ArchX64   Arch = "x64"
	ArchIA32  Arch = "ia32"
	ArchArm64 Arch = "arm64"
	ArchArm   Arch = "arm"
)

// ABI is the C library or calling-convention suffix of an identifier
type ABI string

const (
	ABINone      ABI = ""
	ABIMSVC      ABI = "msvc"
	ABIGnu       ABI = "gnu"
	ABIMusl      ABI = "musl"
	ABIGnueabihf ABI = "gnueabihf"
)

// Target is one supported (OS, Arch, ABI) combination.
// The set is closed; TargetUnknown is the zero value and never resolves.
type Target int

const (
	TargetUnknown Target = iota
	AndroidArm64
	Win32X64MSVC
	Win32IA32MSVC
	Win32Arm64MSVC
	DarwinX64
	DarwinArm64
	FreeBSDX64
	LinuxX64Gnu
	LinuxX64Musl
	LinuxArm64Gnu
	LinuxArm64Musl
	LinuxArmGnueabihf
	targetCount
)

type targetInfo struct {
	os   OS
	arch Arch
	abi  ABI
}

var targetTable = [targetCount]targetInfo{
	TargetUnknown:     {},
	AndroidArm64:      {OSAndroid, ArchArm64, ABINone},
	Win32X64MSVC:      {OSWindows, ArchX64, ABIMSVC},
	Win32IA32MSVC:     {OSWindows, ArchIA32, ABIMSVC},
	Win32Arm64MSVC:    {OSWindows, ArchArm64, ABIMSVC},
	DarwinX64:         {OSDarwin, ArchX64, ABINone},
	DarwinArm64:       {OSDarwin, ArchArm64, ABINone},
	FreeBSDX64:        {OSFreeBSD, ArchX64, ABINone},
	LinuxX64Gnu:       {OSLinux, ArchX64, ABIGnu},
	LinuxX64Musl:      {OSLinux, ArchX64, ABIMusl},
	LinuxArm64Gnu:     {OSLinux, ArchArm64, ABIGnu},
	LinuxArm64Musl:    {OSLinux, ArchArm64, ABIMusl},
	LinuxArmGnueabihf: {OSLinux, ArchArm, ABIGnueabihf},
}

func (t Target) info() targetInfo {
	if t <= TargetUnknown || t >= targetCount {
		return targetInfo{}
	}
	return targetTable[t]
}

// Valid reports whether t is one of the supported combinations
func (t Target) Valid() bool {
	return t > TargetUnknown && t < targetCount
}

func (t Target) OS() OS     { return t.info().os }
func (t Target) Arch() Arch { return t.info().arch }
func (t Target) ABI() ABI   { return t.info().abi }

// Identifier renders the canonical platform identifier, e.g. "linux-x64-musl".
// Invalid targets render as the empty string.
func (t Target) Identifier() string {
	if !t.Valid() {
		return ""
	}
	info := targetTable[t]
	id := string(info.os) + "-" + string(info.arch)
	if info.abi != ABINone {
		id += "-" + string(info.abi)
	}
	return id
}

func (t Target) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return t.Identifier()
}

// Targets returns every supported target in matrix order
func Targets() []Target {
	out := make([]Target, 0, targetCount-1)
	for t := TargetUnknown + 1; t < targetCount; t++ {
		out = append(out, t)
	}
	return out
}

// ParseIdentifier maps a canonical identifier back to its Target
func ParseIdentifier(id string) (Target, bool) {
	for _, t := range Targets() {
		if t.Identifier() == id {
			return t, true
		}
	}
	return TargetUnknown, false
}

// Host holds the process-reported operating system and architecture names
type Host struct {
	OS   string
	Arch string
}

// Current returns the running host using identifier vocabulary
func Current() Host {
	return Host{
		OS:   NormalizeOS(runtime.GOOS),
		Arch: NormalizeArch(runtime.GOARCH),
	}
}

// NormalizeOS maps Go GOOS names onto identifier OS tags.
// Unknown names are returned unchanged so that resolution can reject them.
func NormalizeOS(goos string) string {
	switch goos {
	case "windows":
		return string(OSWindows)
	case "macos":
		return string(OSDarwin)
	}
	return goos
}

// NormalizeArch maps Go GOARCH names onto identifier arch tags.
// Unknown names are returned unchanged.
func NormalizeArch(goarch string) string {
	switch goarch {
	case "amd64":
		return string(ArchX64)
	case "386":
		return string(ArchIA32)
	}
	return goarch
}
