package listing

import (
	"fmt"
	"io/fs"
	"strings"
)

// TimeLayout renders modification times as "Mon DD HH:MM".
const TimeLayout = "Jan 02 15:04"

// Placeholder stands in for owner or group names that cannot be resolved.
const Placeholder = "???????"

var sizeUnits = []string{"", "K", "M", "G", "T"}

// FormatPermissions renders mode as the ten-character ls string: the type
// ('d', 'l' or '-') followed by the user, group and other rwx triplets.
func FormatPermissions(mode fs.FileMode) string {
	var b [10]byte
	switch {
	case mode.IsDir():
		b[0] = 'd'
	case mode&fs.ModeSymlink != 0:
		b[0] = 'l'
	default:
		b[0] = '-'
	}
	const rwx = "rwxrwxrwx"
	perm := mode.Perm()
	for i := 0; i < 9; i++ {
		if perm&(1<<uint(8-i)) != 0 {
			b[i+1] = rwx[i]
		} else {
			b[i+1] = '-'
		}
	}
	return string(b[:])
}

// FormatSize renders a byte count. In human mode the value is divided by
// 1024 while it stays at or above 1024, at most four times, and printed with
// one decimal and a K/M/G/T suffix. Values below 1024 stay plain integers.
func FormatSize(size int64, human bool) string {
	if !human {
		return fmt.Sprintf("%d", size)
	}
	unit := 0
	v := float64(size)
	for v >= 1024 && unit < len(sizeUnits)-1 {
		v /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d", size)
	}
	return fmt.Sprintf("%.1f%s", v, sizeUnits[unit])
}

// Layout computes the column-major grid for count names whose longest is
// maxLen bytes on a terminal width columns wide. colWidth includes the
// two-space gutter; cols is at least 1.
func Layout(count, maxLen, width int) (rows, cols, colWidth int) {
	colWidth = maxLen + 2
	cols = width / colWidth
	if cols < 1 {
		cols = 1
	}
	rows = (count + cols - 1) / cols
	return rows, cols, colWidth
}

// padRight left-justifies s in a field of width bytes.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
