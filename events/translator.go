package events

import (
	"context"
	"time"

	"github.com/wippyai/sdl-bridge/affinity"
	"github.com/wippyai/sdl-bridge/native"
)

// waitSlice bounds each native wait so context cancellation is noticed.
const waitSlice = 50 * time.Millisecond

// Translator reads and writes the native event queue.
type Translator struct {
	lib   native.Events
	errs  native.ErrorSource
	ids   Resolver
	guard *affinity.Guard
}

// NewTranslator creates a translator over lib. ids resolves native IDs to
// handles and may be nil; guard may be nil to skip affinity checks.
func NewTranslator(lib native.Library, ids Resolver, guard *affinity.Guard) *Translator {
	if ids == nil {
		ids = noResolver{}
	}
	if guard == nil {
		guard = &affinity.Guard{}
	}
	return &Translator{lib: lib, errs: lib, ids: ids, guard: guard}
}

// Decode converts a raw event using the translator's resolver.
func (t *Translator) Decode(raw *native.RawEvent) Event {
	return Decode(raw, t.ids)
}

// PollNext returns the next pending event without blocking. An empty
// queue yields (nil, false, nil).
func (t *Translator) PollNext() (Event, bool, error) {
	if err := t.guard.Check("PollEvent"); err != nil {
		return nil, false, err
	}
	var raw native.RawEvent
	if !t.lib.PollEvent(&raw) {
		return nil, false, nil
	}
	return t.Decode(&raw), true, nil
}

// WaitNext blocks until an event arrives, timeoutMillis elapses or ctx is
// done. A negative timeout waits on ctx alone; zero behaves like PollNext.
func (t *Translator) WaitNext(ctx context.Context, timeoutMillis int32) (Event, bool, error) {
	if err := t.guard.Check("WaitEventTimeout"); err != nil {
		return nil, false, err
	}
	if timeoutMillis == 0 {
		return t.PollNext()
	}

	var deadline time.Time
	if timeoutMillis > 0 {
		deadline = time.Now().Add(time.Duration(timeoutMillis) * time.Millisecond)
	}
	var raw native.RawEvent
	for {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		slice := waitSlice
		if !deadline.IsZero() {
			left := time.Until(deadline)
			if left <= 0 {
				return nil, false, nil
			}
			if left < slice {
				slice = left
			}
		}
		ms := int32(slice / time.Millisecond)
		if ms < 1 {
			ms = 1
		}
		if t.lib.WaitEventTimeout(&raw, ms) {
			return t.Decode(&raw), true, nil
		}
	}
}

// Push encodes ev and appends it to the native queue.
func (t *Translator) Push(ev Event) error {
	raw, err := Encode(ev)
	if err != nil {
		return err
	}
	ok := t.lib.PushEvent(raw)
	return native.Check(t.errs, "PushEvent", native.ConvBool, ok)
}

// PumpEvents gathers pending input from devices into the queue.
func (t *Translator) PumpEvents() error {
	if err := t.guard.Check("PumpEvents"); err != nil {
		return err
	}
	t.lib.PumpEvents()
	return nil
}

// FlushEvents drops queued events with types in [minType, maxType].
func (t *Translator) FlushEvents(minType, maxType uint32) {
	t.lib.FlushEvents(minType, maxType)
}

// HasEvent reports whether an event of eventType is queued.
func (t *Translator) HasEvent(eventType uint32) bool {
	return t.lib.HasEvent(eventType)
}
