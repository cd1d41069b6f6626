//go:build windows

package transfer

import (
	"errors"

	"golang.org/x/sys/windows"
)

// isCrossDevice reports whether err is the ERROR_NOT_SAME_DEVICE MoveFile
// returns when the source and destination are on different volumes.
func isCrossDevice(err error) bool {
	return errors.Is(err, windows.ERROR_NOT_SAME_DEVICE)
}
