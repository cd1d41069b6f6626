// Package terminal reports the width of the output device.
package terminal

// DefaultWidth is used when the output is not a terminal or the size query
// fails.
const DefaultWidth = 80

// Width returns the column count of the terminal attached to fd, or
// DefaultWidth.
func Width(fd uintptr) int {
	if w, ok := queryWidth(fd); ok && w > 0 {
		return w
	}
	return DefaultWidth
}
