package resource

import "sync"

// Table stores per-handle values alongside a Registry. Subscribed to a
// registry, it drops a handle's value as soon as the handle is retired, so
// a retired handle never finds stale metadata.
type Table[T any] struct {
	entries map[Handle]T
	onDrop  func(Handle, T)
	mu      sync.RWMutex
}

// NewTable creates an empty table. onDrop, if non-nil, is called for each
// value removed because its handle was retired.
func NewTable[T any](onDrop func(Handle, T)) *Table[T] {
	return &Table[T]{
		entries: make(map[Handle]T),
		onDrop:  onDrop,
	}
}

// Attach subscribes t to r and returns the unsubscribe function.
func (t *Table[T]) Attach(r *Registry) func() {
	return r.Subscribe(t)
}

// Set stores v for h.
func (t *Table[T]) Set(h Handle, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[h] = v
}

// Get returns the value for h.
func (t *Table[T]) Get(h Handle) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[h]
	return v, ok
}

// Delete removes and returns the value for h.
func (t *Table[T]) Delete(h Handle) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.entries[h]
	if ok {
		delete(t.entries, h)
	}
	return v, ok
}

// Len returns the number of stored values.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Each calls fn for every entry until fn returns false. Iteration order is
// unspecified.
func (t *Table[T]) Each(fn func(Handle, T) bool) {
	t.mu.RLock()
	snapshot := make(map[Handle]T, len(t.entries))
	for h, v := range t.entries {
		snapshot[h] = v
	}
	t.mu.RUnlock()

	for h, v := range snapshot {
		if !fn(h, v) {
			return
		}
	}
}

// OnResourceEvent implements Observer.
func (t *Table[T]) OnResourceEvent(e Event) {
	if e.Type != EventRetired {
		return
	}
	v, ok := t.Delete(e.Handle)
	if ok && t.onDrop != nil {
		t.onDrop(e.Handle, v)
	}
}
