package loader

import (
	"strings"

	"github.com/wippyai/bindings/platform"
)

const (
	DefaultPrefix    = "bindings"
	DefaultExtension = ".node"
)

// Candidate is the pair of artifact names derived from one identifier
type Candidate struct {
	// File is the local artifact name, "<prefix>.<id><ext>".
	File string
	// Package is the companion package name: File without the extension,
	// dots replaced by hyphens.
	Package string
}

// Candidates derives the artifact names for target
func Candidates(prefix, ext string, target platform.Target) Candidate {
	base := prefix + "." + target.Identifier()
	return Candidate{
		File:    base + ext,
		Package: strings.ReplaceAll(base, ".", "-"),
	}
}
