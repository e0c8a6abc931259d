//go:build !(linux || darwin || freebsd)

package platform

import (
	"github.com/wippyai/bindings/errors"
)

// KernelMachine is not available on this host
func KernelMachine() (string, error) {
	return "", errors.UnsupportedBackend("", "uname not available on this host")
}
