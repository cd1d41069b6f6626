//go:build unix

package listing

import (
	"io/fs"
	"syscall"
)

// ownership extracts the link count and owning ids from info.
func ownership(info fs.FileInfo) (nlink uint64, uid, gid uint32, ok bool) {
	if st, isStat := info.Sys().(*syscall.Stat_t); isStat {
		return uint64(st.Nlink), st.Uid, st.Gid, true
	}
	return 1, 0, 0, false
}
