//go:build linux

package affinity

import "golang.org/x/sys/unix"

// Current returns the calling OS thread ID.
func Current() int {
	return unix.Gettid()
}

// Supported reports whether thread IDs are meaningful on this platform.
func Supported() bool { return true }
