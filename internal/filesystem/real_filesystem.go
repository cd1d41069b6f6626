package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// RealFileSystem implements the FileSystem interface using the standard os package.
type RealFileSystem struct{}

// NewRealFileSystem creates a new instance of RealFileSystem.
func NewRealFileSystem() *RealFileSystem {
	return &RealFileSystem{}
}

// Open opens a file using os.Open.
func (rfs *RealFileSystem) Open(name string) (File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// OpenFile opens a file using os.OpenFile.
func (rfs *RealFileSystem) OpenFile(name string, flag int, perm fs.FileMode) (File, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Stat returns a FileInfo using os.Stat.
func (rfs *RealFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Lstat returns a FileInfo using os.Lstat.
func (rfs *RealFileSystem) Lstat(name string) (fs.FileInfo, error) {
	return os.Lstat(name)
}

// Readlink reads a symlink using os.Readlink.
func (rfs *RealFileSystem) Readlink(name string) (string, error) {
	return os.Readlink(name)
}

// Remove removes the named file or directory using os.Remove.
func (rfs *RealFileSystem) Remove(name string) error {
	return os.Remove(name)
}

// Rename renames (moves) a file using os.Rename.
func (rfs *RealFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// RealPath resolves name with filepath.Abs followed by filepath.EvalSymlinks.
func (rfs *RealFileSystem) RealPath(name string) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
