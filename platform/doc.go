// Package platform models the closed set of supported binding platforms and
// resolves the running host onto one of them.
//
// A Target is one (OS, Arch, ABI) combination from the matrix:
//
//	OS       Architectures      ABI
//	───────────────────────────────────────
//	android  arm64              -
//	win32    x64, ia32, arm64   msvc
//	darwin   x64, arm64         -
//	freebsd  x64                -
//	linux    x64, arm64         gnu | musl
//	linux    arm                gnueabihf
//
// Resolve rejects anything outside the matrix before touching the filesystem.
// On linux x64 and arm64 it asks a LibcProbe whether the C library is musl;
// the default LinkerProbe reads /usr/bin/ldd as text and looks for "musl".
//
//	target, err := platform.Resolve(platform.Current(), platform.NewLinkerProbe(nil, ""))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(target.Identifier()) // "linux-x64-gnu"
package platform
