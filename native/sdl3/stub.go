//go:build !sdl3 || !cgo

package sdl3

import "github.com/wippyai/sdl-bridge/native"

// Available reports whether the SDL3 binding is compiled in.
func Available() bool { return false }

// Open always fails with ErrNotBuilt.
func Open() (native.Library, error) {
	return nil, ErrNotBuilt
}
