package platform

import (
	"github.com/wippyai/bindings/errors"
)

// choice is the outcome of an (OS, Arch) lookup: either a fixed target or a
// gnu/musl pair that needs a libc probe.
type choice struct {
	fixed Target
	gnu   Target
	musl  Target
}

type osRule struct {
	arches map[Arch]choice
	label  string
}

var matrix = map[OS]osRule{
	OSAndroid: {
		label: "Android",
		arches: map[Arch]choice{
			ArchArm64: {fixed: AndroidArm64},
		},
	},
	OSWindows: {
		label: "Windows",
		arches: map[Arch]choice{
			ArchX64:   {fixed: Win32X64MSVC},
			ArchIA32:  {fixed: Win32IA32MSVC},
			ArchArm64: {fixed: Win32Arm64MSVC},
		},
	},
	OSDarwin: {
		label: "macOS",
		arches: map[Arch]choice{
			ArchX64:   {fixed: DarwinX64},
			ArchArm64: {fixed: DarwinArm64},
		},
	},
	OSFreeBSD: {
		label: "FreeBSD",
		arches: map[Arch]choice{
			ArchX64: {fixed: FreeBSDX64},
		},
	},
	OSLinux: {
		label: "Linux",
		arches: map[Arch]choice{
			ArchX64:   {gnu: LinuxX64Gnu, musl: LinuxX64Musl},
			ArchArm64: {gnu: LinuxArm64Gnu, musl: LinuxArm64Musl},
			ArchArm:   {fixed: LinuxArmGnueabihf},
		},
	},
}

// Resolve maps host facts onto a supported Target.
//
// Unknown operating systems and architectures fail before probe is consulted.
// probe is called only for linux x64 and arm64; its error is returned as is.
func Resolve(host Host, probe LibcProbe) (Target, error) {
	osName := NormalizeOS(host.OS)
	archName := NormalizeArch(host.Arch)

	rule, ok := matrix[OS(osName)]
	if !ok {
		return TargetUnknown, errors.UnsupportedOS(osName, archName)
	}

	c, ok := rule.arches[Arch(archName)]
	if !ok {
		return TargetUnknown, errors.UnsupportedArch(rule.label, archName)
	}

	if c.fixed != TargetUnknown {
		return c.fixed, nil
	}

	if probe == nil {
		return TargetUnknown, errors.InvalidInput(errors.PhaseDetect, "libc probe required for "+osName+"-"+archName)
	}
	musl, err := probe.IsMusl()
	if err != nil {
		return TargetUnknown, err
	}
	if musl {
		return c.musl, nil
	}
	return c.gnu, nil
}

// NeedsLibcProbe reports whether resolving host would consult a libc probe
func NeedsLibcProbe(host Host) bool {
	rule, ok := matrix[OS(NormalizeOS(host.OS))]
	if !ok {
		return false
	}
	c, ok := rule.arches[Arch(NormalizeArch(host.Arch))]
	return ok && c.fixed == TargetUnknown
}
