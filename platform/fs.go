package platform

import (
	"os"
)

// FS is the filesystem surface used during resolution and loading
type FS interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
}

// OSFS implements FS on the host filesystem
type OSFS struct{}

func (OSFS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (OSFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

var _ FS = OSFS{}
