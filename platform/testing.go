package platform

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"
)

// MockFS provides an in-memory FS for testing
type MockFS struct {
	// Contents
	Files map[string][]byte
	Dirs  map[string]bool

	// Mock behavior
	ReadErrors map[string]error

	// Call tracking
	StatCalls []string
	ReadCalls []string

	mu sync.Mutex
}

// NewMockFS creates an empty mock filesystem
func NewMockFS() *MockFS {
	return &MockFS{
		Files:      make(map[string][]byte),
		Dirs:       make(map[string]bool),
		ReadErrors: make(map[string]error),
	}
}

// AddFile stores data at name and marks its parent directories as present
func (m *MockFS) AddFile(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name = filepath.Clean(name)
	m.Files[name] = data
	for dir := filepath.Dir(name); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		m.Dirs[dir] = true
	}
}

// AddDir marks name as an existing directory
func (m *MockFS) AddDir(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dirs[filepath.Clean(name)] = true
}

func (m *MockFS) Stat(name string) (os.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name = filepath.Clean(name)
	m.StatCalls = append(m.StatCalls, name)

	if data, ok := m.Files[name]; ok {
		return mockInfo{name: path.Base(filepath.ToSlash(name)), size: int64(len(data))}, nil
	}
	if m.Dirs[name] {
		return mockInfo{name: path.Base(filepath.ToSlash(name)), dir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (m *MockFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name = filepath.Clean(name)
	m.ReadCalls = append(m.ReadCalls, name)

	if err, ok := m.ReadErrors[name]; ok {
		return nil, err
	}
	if data, ok := m.Files[name]; ok {
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// Calls returns the number of Stat and ReadFile calls made so far
func (m *MockFS) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.StatCalls) + len(m.ReadCalls)
}

// Reset clears all call tracking
func (m *MockFS) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatCalls = m.StatCalls[:0]
	m.ReadCalls = m.ReadCalls[:0]
}

type mockInfo struct {
	name string
	size int64
	dir  bool
}

func (i mockInfo) Name() string { return i.name }
func (i mockInfo) Size() int64  { return i.size }
func (i mockInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
func (i mockInfo) ModTime() time.Time { return time.Time{} }
func (i mockInfo) IsDir() bool        { return i.dir }
func (i mockInfo) Sys() any           { return nil }

var _ FS = (*MockFS)(nil)
