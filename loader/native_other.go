//go:build !(darwin || linux || freebsd)

package loader

import (
	"github.com/wippyai/bindings/errors"
)

// TODO: open PE artifacts with golang.org/x/sys/windows LoadDLL on win32 targets.
func openNative(req Request) (Module, error) {
	err := errors.UnsupportedBackend(req.Path, "native artifacts are not supported on this host")
	err.Target = req.Target.Identifier()
	return nil, err
}
