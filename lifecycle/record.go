package lifecycle

import (
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

// Record is the ownership state of one live resource. Records are only
// mutated with the manager lock held.
type Record struct {
	parent    *Record
	bound     *Record // stream: the device it feeds
	claimedBy *Record // window: the GPU device presenting to it
	children  map[resource.Handle]*Record
	attached  map[resource.Handle]*Record // device: bound streams or claimed windows

	Handle resource.Handle
	Addr   native.Address
	// ID is the window ID, logical audio device ID or joystick ID.
	ID   uint32
	Kind resource.Kind
}

func newRecord(kind resource.Kind, addr native.Address, parent *Record) *Record {
	return &Record{Kind: kind, Addr: addr, parent: parent}
}

// Parent returns the owning resource, or 0 for top-level resources.
func (r *Record) Parent() resource.Handle {
	if r.parent == nil {
		return 0
	}
	return r.parent.Handle
}

// Children returns the handles of owned resources.
func (r *Record) Children() []resource.Handle {
	out := make([]resource.Handle, 0, len(r.children))
	for h := range r.children {
		out = append(out, h)
	}
	return out
}

// Bound returns the device a stream is bound to, or 0.
func (r *Record) Bound() resource.Handle {
	if r.bound == nil {
		return 0
	}
	return r.bound.Handle
}

// ClaimedBy returns the GPU device that claimed a window, or 0.
func (r *Record) ClaimedBy() resource.Handle {
	if r.claimedBy == nil {
		return 0
	}
	return r.claimedBy.Handle
}

func (r *Record) adopt(child *Record) {
	if r.children == nil {
		r.children = make(map[resource.Handle]*Record)
	}
	r.children[child.Handle] = child
}

func (r *Record) attach(other *Record) {
	if r.attached == nil {
		r.attached = make(map[resource.Handle]*Record)
	}
	r.attached[other.Handle] = other
}
