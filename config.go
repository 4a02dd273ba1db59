package sdlbridge

import (
	"go.uber.org/zap"

	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/native/sdl3"
	"github.com/wippyai/sdl-bridge/native/sim"
)

// AffinityMode selects how thread ownership is enforced.
type AffinityMode int

const (
	// AffinityEnforce rejects affine calls from threads other than the one
	// that initialized the library.
	AffinityEnforce AffinityMode = iota
	// AffinityOff skips the check. The caller keeps SDL on one thread.
	AffinityOff
)

func (m AffinityMode) String() string {
	switch m {
	case AffinityEnforce:
		return "enforce"
	case AffinityOff:
		return "off"
	}
	return "unknown"
}

// Config configures a Bridge.
type Config struct {
	// Library is the native library. nil selects the system SDL3 when the
	// binary was built with it and the simulated library otherwise.
	Library native.Library

	// Affinity controls the owning-thread check. The zero value enforces it.
	Affinity AffinityMode

	// Logger receives lifecycle and dispatch logs. The package loggers are
	// process-wide: New installs Logger for every bridge in the process, so
	// the most recently created bridge with a Logger decides where all of
	// them log. nil keeps the current package loggers, which default to
	// no-op.
	Logger *zap.Logger
}

// DefaultLibrary opens the system SDL3 if it is compiled in and falls back
// to the simulated library.
func DefaultLibrary() native.Library {
	if sdl3.Available() {
		if lib, err := sdl3.Open(); err == nil {
			return lib
		}
	}
	return sim.New()
}
