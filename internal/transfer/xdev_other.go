//go:build !unix && !windows

package transfer

// isCrossDevice always reports false here, so mv has no copy fallback.
func isCrossDevice(error) bool {
	return false
}
