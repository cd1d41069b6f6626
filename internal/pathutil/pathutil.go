// Package pathutil holds the small path helpers shared by cp and mv.
package pathutil

import (
	"path/filepath"
	"strings"

	"github.com/stackvity/joshbox/internal/filesystem"
)

// Basename returns the last element of path. Trailing separators are
// ignored, so "dir/" yields "dir".
func Basename(path string) string {
	trimmed := strings.TrimRight(path, string(filepath.Separator))
	if trimmed == "" {
		return filepath.Base(path)
	}
	return filepath.Base(trimmed)
}

// IsDirectory reports whether path exists and is a directory after
// following symlinks. Any stat failure, including a missing path, counts as
// "not a directory".
func IsDirectory(fsys filesystem.FileSystem, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// SameFile reports whether a and b resolve to the same canonical path.
// If either path cannot be resolved (typically because b does not exist
// yet) the answer is false.
func SameFile(fsys filesystem.FileSystem, a, b string) bool {
	ra, err := fsys.RealPath(a)
	if err != nil {
		return false
	}
	rb, err := fsys.RealPath(b)
	if err != nil {
		return false
	}
	return ra == rb
}
