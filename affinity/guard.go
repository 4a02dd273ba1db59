package affinity

import (
	"sync/atomic"

	"github.com/wippyai/sdl-bridge/errors"
)

// Guard holds the owning thread ID. The zero value has no owner and accepts
// every caller.
type Guard struct {
	owner    atomic.Int64
	disabled bool
}

// Disabled returns a guard that never records an owner. Callers take on
// the threading rules themselves.
func Disabled() *Guard {
	return &Guard{disabled: true}
}

// Enforcing reports whether the guard checks callers at all.
func (g *Guard) Enforcing() bool {
	return !g.disabled
}

// Claim records the calling thread as owner unless one is already recorded.
// It returns the owner in effect after the call.
func (g *Guard) Claim() int {
	if g.disabled {
		return 0
	}
	tid := int64(Current())
	if tid == 0 {
		return 0
	}
	if g.owner.CompareAndSwap(0, tid) {
		return int(tid)
	}
	return int(g.owner.Load())
}

// Release clears the owner.
func (g *Guard) Release() {
	g.owner.Store(0)
}

// Owner returns the owning thread ID, or 0 if unclaimed.
func (g *Guard) Owner() int {
	return int(g.owner.Load())
}

// Check fails with a thread-affinity error when an owner is recorded and
// the caller runs on a different thread.
func (g *Guard) Check(function string) error {
	owner := g.owner.Load()
	if owner == 0 {
		return nil
	}
	cur := int64(Current())
	if cur == 0 || cur == owner {
		return nil
	}
	return errors.ThreadAffinity(function, int(owner), int(cur))
}
