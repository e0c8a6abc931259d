//go:build linux || darwin || freebsd

package platform

import (
	"golang.org/x/sys/unix"

	"github.com/wippyai/bindings/errors"
)

// KernelMachine returns the kernel-reported machine name (uname -m)
func KernelMachine() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", errors.Wrap(errors.PhaseDetect, errors.KindIO, err, "uname")
	}
	return unix.ByteSliceToString(uts.Machine[:]), nil
}
