//go:build unix

package transfer

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isCrossDevice reports whether err is the EXDEV a rename returns when the
// source and destination live on different filesystems.
func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
