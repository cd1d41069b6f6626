package filesystem

import (
	"io"
	"io/fs"
)

// File is the subset of *os.File the commands need. Keeping it an interface
// lets tests hand back handles that fail partway through a transfer.
type File interface {
	io.ReadWriteCloser

	// Name returns the name the file was opened with.
	Name() string

	// Stat returns the FileInfo for the open handle (fstat).
	Stat() (fs.FileInfo, error)

	// Readdirnames reads up to n names from a directory handle.
	// See (*os.File).Readdirnames for the n <= 0 semantics.
	Readdirnames(n int) ([]string, error)
}

// FileSystem defines an interface for interacting with the filesystem.
// This allows for decoupling core logic from the OS package, facilitating testing.
type FileSystem interface {
	// Open opens the named file for reading.
	Open(name string) (File, error)

	// OpenFile is the generalized open call; see os.OpenFile.
	OpenFile(name string, flag int, perm fs.FileMode) (File, error)

	// Stat returns a FileInfo describing the named file, following symlinks.
	Stat(name string) (fs.FileInfo, error)

	// Lstat returns a FileInfo describing the named file.
	// If the file is a symbolic link, the FileInfo describes the link itself.
	Lstat(name string) (fs.FileInfo, error)

	// Readlink returns the destination of the named symbolic link.
	Readlink(name string) (string, error)

	// Remove removes the named file or (empty) directory.
	Remove(name string) error

	// Rename renames (moves) oldpath to newpath.
	// If newpath already exists and is not a directory, Rename replaces it.
	// Renames across devices fail with EXDEV.
	Rename(oldpath, newpath string) error

	// RealPath returns the absolute form of name with every symlink and
	// relative component resolved. The file must exist.
	RealPath(name string) (string, error)
}
