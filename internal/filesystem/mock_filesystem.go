// --- START OF FILE internal/filesystem/mock_filesystem.go ---
package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing" // Keep testify dependency for Assert methods

	"github.com/stretchr/testify/assert"
)

// MockFileSystem is a FileSystem for tests. It delegates to the real OS
// (tests point it at temp directories) and lets a test inject failures per
// path: open/rename/remove errors, reads that fail, and writes that come
// back short. Calls that mutate the tree are counted for assertions.
type MockFileSystem struct {
	base FileSystem

	mu               sync.RWMutex
	openErrorPaths   map[string]error // paths that should error on Open/OpenFile
	statErrorPaths   map[string]error // paths that should error on Stat/Lstat
	readErrorPaths   map[string]error // paths whose handle fails on Read
	renameErrorPaths map[string]error // paths (old) that should error on rename
	removeErrorPaths map[string]error // paths that should error on remove
	shortWritePaths  map[string]bool  // paths whose handle writes short

	renameCalls map[string]int
	removeCalls map[string]int
	openCalls   map[string]int
}

// NewMockFileSystem creates a new instance of MockFileSystem, ready for use.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		base:             NewRealFileSystem(),
		openErrorPaths:   make(map[string]error),
		statErrorPaths:   make(map[string]error),
		readErrorPaths:   make(map[string]error),
		renameErrorPaths: make(map[string]error),
		removeErrorPaths: make(map[string]error),
		shortWritePaths:  make(map[string]bool),
		renameCalls:      make(map[string]int),
		removeCalls:      make(map[string]int),
		openCalls:        make(map[string]int),
	}
}

func abs(path string) string {
	p, _ := filepath.Abs(path)
	return p
}

// --- Helper methods for simulating errors ---

func (mfs *MockFileSystem) SimulateOpenError(path string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.openErrorPaths[abs(path)] = err
}

func (mfs *MockFileSystem) SimulateStatError(path string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.statErrorPaths[abs(path)] = err
}

func (mfs *MockFileSystem) SimulateReadError(path string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.readErrorPaths[abs(path)] = err
}

func (mfs *MockFileSystem) SimulateRenameError(path string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.renameErrorPaths[abs(path)] = err
}

func (mfs *MockFileSystem) SimulateRemoveError(path string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.removeErrorPaths[abs(path)] = err
}

// SimulateShortWrite makes every Write on a handle opened for path report
// fewer bytes than requested.
func (mfs *MockFileSystem) SimulateShortWrite(path string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.shortWritePaths[abs(path)] = true
}

// --- Assert helpers (Using testify for convenience) ---

func (mfs *MockFileSystem) AssertRenameCalled(t *testing.T, oldpath string) {
	t.Helper()
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	assert.Greater(t, mfs.renameCalls[abs(oldpath)], 0, "Rename was not called for %s", oldpath)
}

func (mfs *MockFileSystem) AssertRemoveCalled(t *testing.T, path string) {
	t.Helper()
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	assert.Greater(t, mfs.removeCalls[abs(path)], 0, "Remove was not called for %s", path)
}

func (mfs *MockFileSystem) AssertRemoveNotCalled(t *testing.T, path string) {
	t.Helper()
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	assert.Equal(t, 0, mfs.removeCalls[abs(path)], "Remove should not have been called for %s", path)
}

func (mfs *MockFileSystem) AssertOpenNotCalled(t *testing.T, path string) {
	t.Helper()
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	assert.Equal(t, 0, mfs.openCalls[abs(path)], "Open should not have been called for %s", path)
}

// --- Implement FileSystem interface methods ---

func (mfs *MockFileSystem) Open(name string) (File, error) {
	return mfs.open(name, func() (File, error) { return mfs.base.Open(name) })
}

func (mfs *MockFileSystem) OpenFile(name string, flag int, perm fs.FileMode) (File, error) {
	return mfs.open(name, func() (File, error) { return mfs.base.OpenFile(name, flag, perm) })
}

func (mfs *MockFileSystem) open(name string, do func() (File, error)) (File, error) {
	mfs.mu.Lock()
	p := abs(name)
	mfs.openCalls[p]++
	openErr := mfs.openErrorPaths[p]
	readErr := mfs.readErrorPaths[p]
	short := mfs.shortWritePaths[p]
	mfs.mu.Unlock()

	if openErr != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: openErr}
	}
	f, err := do()
	if err != nil {
		return nil, err
	}
	if readErr == nil && !short {
		return f, nil
	}
	return &faultyFile{File: f, readErr: readErr, short: short}, nil
}

func (mfs *MockFileSystem) Stat(name string) (fs.FileInfo, error) {
	if err := mfs.statError(name); err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	return mfs.base.Stat(name)
}

func (mfs *MockFileSystem) Lstat(name string) (fs.FileInfo, error) {
	if err := mfs.statError(name); err != nil {
		return nil, &fs.PathError{Op: "lstat", Path: name, Err: err}
	}
	return mfs.base.Lstat(name)
}

func (mfs *MockFileSystem) statError(name string) error {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	return mfs.statErrorPaths[abs(name)]
}

func (mfs *MockFileSystem) Readlink(name string) (string, error) {
	return mfs.base.Readlink(name)
}

func (mfs *MockFileSystem) Remove(name string) error {
	mfs.mu.Lock()
	p := abs(name)
	mfs.removeCalls[p]++
	err := mfs.removeErrorPaths[p]
	mfs.mu.Unlock()

	if err != nil {
		return &fs.PathError{Op: "remove", Path: name, Err: err}
	}
	return mfs.base.Remove(name)
}

// Rename wraps a simulated error in *os.LinkError, the same shape os.Rename
// uses, so EXDEV checks behave as they would against the real syscall.
func (mfs *MockFileSystem) Rename(oldpath, newpath string) error {
	mfs.mu.Lock()
	p := abs(oldpath)
	mfs.renameCalls[p]++
	err := mfs.renameErrorPaths[p]
	mfs.mu.Unlock()

	if err != nil {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: err}
	}
	return mfs.base.Rename(oldpath, newpath)
}

func (mfs *MockFileSystem) RealPath(name string) (string, error) {
	return mfs.base.RealPath(name)
}

// faultyFile wraps a real handle and misbehaves on Read or Write.
type faultyFile struct {
	File
	readErr error
	short   bool
}

func (f *faultyFile) Read(p []byte) (int, error) {
	if f.readErr != nil {
		return 0, &fs.PathError{Op: "read", Path: f.Name(), Err: f.readErr}
	}
	return f.File.Read(p)
}

func (f *faultyFile) Write(p []byte) (int, error) {
	if !f.short || len(p) == 0 {
		return f.File.Write(p)
	}
	return f.File.Write(p[:len(p)/2])
}

// --- END OF FILE internal/filesystem/mock_filesystem.go ---
