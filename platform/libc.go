package platform

import (
	"strings"

	"github.com/wippyai/bindings/errors"
)

// DefaultLinkerPath is the dynamic linker wrapper inspected for the musl marker.
// Not every distribution ships it here; see Config.LinkerPath for overrides.
const DefaultLinkerPath = "/usr/bin/ldd"

const muslMarker = "musl"

// LibcProbe reports whether the host C library is musl
type LibcProbe interface {
	IsMusl() (bool, error)
}

// LibcProbeFunc adapts a function to LibcProbe
type LibcProbeFunc func() (bool, error)

func (f LibcProbeFunc) IsMusl() (bool, error) { return f() }

// LinkerProbe detects musl by reading the dynamic linker as text and looking
// for the musl marker.
type LinkerProbe struct {
	FS   FS
	Path string
}

// NewLinkerProbe creates a probe for path on fsys. Empty path means
// DefaultLinkerPath, nil fsys means the host filesystem.
func NewLinkerProbe(fsys FS, path string) *LinkerProbe {
	if fsys == nil {
		fsys = OSFS{}
	}
	if path == "" {
		path = DefaultLinkerPath
	}
	return &LinkerProbe{FS: fsys, Path: path}
}

func (p *LinkerProbe) IsMusl() (bool, error) {
	data, err := p.FS.ReadFile(p.Path)
	if err != nil {
		return false, errors.LibcProbe(p.Path, err)
	}
	return strings.Contains(string(data), muslMarker), nil
}
