package resource

import (
	"sync"

	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/native"
)

type key struct {
	addr native.Address
	kind Kind
}

type slot struct {
	addr native.Address
	gen  uint32
	kind Kind
	live bool
	dead bool // generation exhausted, never reissued
}

type subscription struct {
	obs Observer
	id  uint64
}

// Registry maps generation-stamped handles to native addresses. It is the
// only place a handle turns into an address.
//
// A slot stays bound to its (kind, address) pair after retirement so that
// re-registering the same address bumps the same generation counter. Slots
// are only rebound to a new pair once the index space is full.
type Registry struct {
	keys      map[key]uint32
	slots     []slot
	free      []uint32
	observers []subscription
	nextObsID uint64
	live      int
	maxSlots  int
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		keys:     make(map[key]uint32, 64),
		slots:    make([]slot, 0, 64),
		maxSlots: MaxSlots,
	}
}

// Register issues a handle for a live native address. It fails with a
// duplicate-address error if the pair is already live.
func (r *Registry) Register(kind Kind, addr native.Address) (Handle, error) {
	if !kind.Valid() {
		return 0, errors.New(errors.PhaseHandle, errors.KindArgument).
			Detail("invalid resource kind %d", uint8(kind)).
			Build()
	}
	if addr == 0 {
		return 0, errors.New(errors.PhaseHandle, errors.KindArgument).
			Type(kind.String()).
			Detail("cannot register a null address").
			Build()
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0, errors.Closed(errors.PhaseHandle, "registry")
	}

	k := key{kind: kind, addr: addr}
	idx, bound := r.keys[k]
	if bound && r.slots[idx].dead {
		delete(r.keys, k)
		bound = false
	}
	if bound {
		s := &r.slots[idx]
		if s.live {
			r.mu.Unlock()
			return 0, errors.DuplicateAddress(kind.String(), uintptr(addr))
		}
		r.removeFree(idx)
		s.gen++
		s.live = true
	} else {
		var ok bool
		idx, ok = r.allocSlot()
		if !ok {
			r.mu.Unlock()
			return 0, errors.New(errors.PhaseHandle, errors.KindExhausted).
				Type(kind.String()).
				Detail("no free handle slots").
				Build()
		}
		s := &r.slots[idx]
		s.addr = addr
		s.kind = kind
		s.gen++
		s.live = true
		r.keys[k] = idx
	}
	r.live++
	h := makeHandle(kind, r.slots[idx].gen, idx)
	r.mu.Unlock()

	r.notify(Event{Type: EventRegistered, Handle: h, Kind: kind, Address: addr})
	return h, nil
}

// allocSlot returns a fresh slot, or reclaims the oldest retired one when
// the index space is full. Must hold r.mu.
func (r *Registry) allocSlot() (uint32, bool) {
	if len(r.slots) < r.maxSlots {
		r.slots = append(r.slots, slot{})
		return uint32(len(r.slots) - 1), true
	}
	if len(r.free) == 0 {
		return 0, false
	}
	idx := r.free[0]
	r.free = r.free[1:]
	old := r.slots[idx]
	delete(r.keys, key{kind: old.kind, addr: old.addr})
	return idx, true
}

func (r *Registry) removeFree(idx uint32) {
	for i, f := range r.free {
		if f == idx {
			r.free = append(r.free[:i], r.free[i+1:]...)
			return
		}
	}
}

// lookup validates h against the slot table. Must hold r.mu.
func (r *Registry) lookup(h Handle) (*slot, error) {
	if h == 0 {
		return nil, errors.InvalidHandle(uint64(h), "null handle")
	}
	if uint64(h)>>(kindShift+kindBits) != 0 {
		return nil, errors.InvalidHandle(uint64(h), "malformed handle")
	}
	idx := h.Index()
	if int(idx) >= len(r.slots) {
		return nil, errors.InvalidHandle(uint64(h), "unknown handle")
	}
	s := &r.slots[idx]
	if s.kind != h.Kind() || s.gen != h.Generation() {
		return nil, errors.InvalidHandle(uint64(h), "stale handle")
	}
	if !s.live {
		return nil, errors.InvalidHandle(uint64(h), "handle retired")
	}
	return s, nil
}

// Resolve returns the native address behind a live handle.
func (r *Registry) Resolve(h Handle) (native.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, err := r.lookup(h)
	if err != nil {
		return 0, err
	}
	return s.addr, nil
}

// ResolveKind is Resolve plus a kind check, so a renderer handle can never
// be passed where a window is expected.
func (r *Registry) ResolveKind(h Handle, kind Kind) (native.Address, error) {
	if h != 0 && h.Kind() != kind {
		return 0, errors.InvalidHandle(uint64(h), "expected "+kind.String()+", got "+h.Kind().String())
	}
	return r.Resolve(h)
}

// Retire invalidates h permanently. Retiring a handle that is not live
// fails with an invalid-handle error.
func (r *Registry) Retire(h Handle) error {
	r.mu.Lock()
	s, err := r.lookup(h)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	addr, kind := s.addr, s.kind
	s.live = false
	if s.gen >= MaxGeneration {
		s.dead = true
		delete(r.keys, key{kind: kind, addr: addr})
	} else {
		r.free = append(r.free, h.Index())
	}
	r.live--
	r.mu.Unlock()

	r.notify(Event{Type: EventRetired, Handle: h, Kind: kind, Address: addr})
	return nil
}

// Lookup returns the live handle for a native address, if any.
func (r *Registry) Lookup(kind Kind, addr native.Address) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.keys[key{kind: kind, addr: addr}]
	if !ok {
		return 0, false
	}
	s := r.slots[idx]
	if !s.live {
		return 0, false
	}
	return makeHandle(s.kind, s.gen, idx), true
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.live
}

// Each calls fn for every live handle until fn returns false. The registry
// is read-locked during iteration; fn must not register or retire.
func (r *Registry) Each(fn func(Handle, Kind, native.Address) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i, s := range r.slots {
		if !s.live {
			continue
		}
		if !fn(makeHandle(s.kind, s.gen, uint32(i)), s.kind, s.addr) {
			return
		}
	}
}

// Subscribe adds an observer and returns a function that removes it.
func (r *Registry) Subscribe(o Observer) func() {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()

	r.nextObsID++
	id := r.nextObsID
	r.observers = append(r.observers, subscription{id: id, obs: o})
	return func() {
		r.obsMu.Lock()
		defer r.obsMu.Unlock()
		for i, s := range r.observers {
			if s.id == id {
				r.observers = append(r.observers[:i], r.observers[i+1:]...)
				return
			}
		}
	}
}

// Close retires every live handle and rejects further registrations.
// Native resources are not touched; tear them down before closing.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	var retired []Event
	for i := range r.slots {
		s := &r.slots[i]
		if !s.live {
			continue
		}
		retired = append(retired, Event{
			Type:    EventRetired,
			Handle:  makeHandle(s.kind, s.gen, uint32(i)),
			Kind:    s.kind,
			Address: s.addr,
		})
		s.live = false
	}
	r.live = 0
	r.mu.Unlock()

	for _, e := range retired {
		r.notify(e)
	}
	return nil
}

func (r *Registry) notify(e Event) {
	r.obsMu.RLock()
	subs := make([]subscription, len(r.observers))
	copy(subs, r.observers)
	r.obsMu.RUnlock()

	for _, s := range subs {
		s.obs.OnResourceEvent(e)
	}
}
