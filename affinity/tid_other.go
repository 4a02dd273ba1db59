//go:build !linux

package affinity

// Current returns 0; thread IDs are not tracked on this platform.
func Current() int {
	return 0
}

// Supported reports whether thread IDs are meaningful on this platform.
func Supported() bool { return false }
