package loader

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/bindings/errors"
	"github.com/wippyai/bindings/platform"
)

// ManifestFile is the optional descriptor inside a package directory
const ManifestFile = "package.yaml"

// Manifest describes a companion package
type Manifest struct {
	Name    string   `yaml:"name"`
	Version string   `yaml:"version"`
	Main    string   `yaml:"main"`
	OS      []string `yaml:"os"`
	CPU     []string `yaml:"cpu"`
	Libc    []string `yaml:"libc"`
}

// readManifest loads dir/package.yaml. A missing file yields an empty manifest.
func readManifest(fsys platform.FS, dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := fsys.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return &Manifest{}, nil
		}
		return nil, errors.InvalidManifest(path, "read manifest", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.InvalidManifest(path, "parse manifest", err)
	}
	return &m, nil
}

// check validates the manifest against the package it was found in
func (m *Manifest) check(dir, pkg string, target platform.Target) error {
	path := filepath.Join(dir, ManifestFile)
	fail := func(detail string, args ...any) error {
		return errors.New(errors.PhaseLoad, errors.KindInvalidManifest).
			Target(target.Identifier()).
			Path(path).
			Detail(detail, args...).
			Build()
	}

	if m.Name != "" && m.Name != pkg {
		return fail("manifest name %q does not match package %q", m.Name, pkg)
	}
	if len(m.OS) > 0 && !slices.Contains(m.OS, string(target.OS())) {
		return fail("package does not support os %s", target.OS())
	}
	if len(m.CPU) > 0 && !slices.Contains(m.CPU, string(target.Arch())) {
		return fail("package does not support cpu %s", target.Arch())
	}
	if len(m.Libc) > 0 && target.ABI() != platform.ABINone && !slices.Contains(m.Libc, libcName(target.ABI())) {
		return fail("package does not support libc %s", target.ABI())
	}
	if m.Main != "" && !filepath.IsLocal(m.Main) {
		return fail("main %q escapes the package directory", m.Main)
	}
	return nil
}

// libcName maps an ABI tag onto the libc vocabulary used in manifests
func libcName(abi platform.ABI) string {
	switch abi {
	case platform.ABIGnu, platform.ABIGnueabihf:
		return "glibc"
	case platform.ABIMusl:
		return "musl"
	}
	return string(abi)
}
