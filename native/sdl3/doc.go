// Package sdl3 binds native.Library to the system SDL3 through cgo.
//
// The binding is only compiled with the sdl3 build tag and requires SDL3
// development files visible to pkg-config:
//
//	go build -tags sdl3 ./...
//
// Without the tag Open returns ErrNotBuilt so callers can fall back to the
// simulated library.
package sdl3

import "github.com/wippyai/sdl-bridge/errors"

// ErrNotBuilt is returned by Open when the binary was built without SDL3.
var ErrNotBuilt = errors.New(errors.PhaseNative, errors.KindNotFound).
	Detail("SDL3 support not compiled in (build with -tags sdl3)").
	Build()
