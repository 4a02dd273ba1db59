package sim

import (
	"encoding/binary"
	"time"

	"github.com/wippyai/sdl-bridge/native"
)

// pushLocked appends ev to the queue. Must hold s.mu.
func (s *Library) pushLocked(ev *native.RawEvent) bool {
	if len(s.queue) >= maxQueuedEvents {
		return s.fail("Event queue is full")
	}
	if ev.Timestamp() == 0 {
		binary.LittleEndian.PutUint64(ev[8:], uint64(time.Since(s.start).Nanoseconds()))
	}
	s.queue = append(s.queue, *ev)
	select {
	case s.notify <- struct{}{}:
	default:
	}
	return true
}

func (s *Library) PumpEvents() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("PumpEvents")
}

// popLocked removes the oldest event into ev. Must hold s.mu.
func (s *Library) popLocked(ev *native.RawEvent) bool {
	if len(s.queue) == 0 {
		return false
	}
	*ev = s.queue[0]
	s.queue = s.queue[1:]
	return true
}

func (s *Library) PollEvent(ev *native.RawEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("PollEvent")
	if ev == nil {
		return len(s.queue) > 0
	}
	return s.popLocked(ev)
}

func (s *Library) WaitEventTimeout(ev *native.RawEvent, timeoutMS int32) bool {
	s.mu.Lock()
	s.enter("WaitEventTimeout")
	if s.popLocked(ev) {
		s.mu.Unlock()
		return true
	}
	s.mu.Unlock()
	if timeoutMS == 0 {
		return false
	}

	var deadline <-chan time.Time
	if timeoutMS > 0 {
		timer := time.NewTimer(time.Duration(timeoutMS) * time.Millisecond)
		defer timer.Stop()
		deadline = timer.C
	}
	for {
		select {
		case <-s.notify:
			s.mu.Lock()
			ok := s.popLocked(ev)
			s.mu.Unlock()
			if ok {
				return true
			}
		case <-deadline:
			return false
		}
	}
}

func (s *Library) PushEvent(ev *native.RawEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("PushEvent") {
		return false
	}
	return s.pushLocked(ev)
}

func (s *Library) HasEvent(eventType uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("HasEvent")
	for i := range s.queue {
		if s.queue[i].Type() == eventType {
			return true
		}
	}
	return false
}

func (s *Library) FlushEvents(minType, maxType uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("FlushEvents")
	kept := s.queue[:0]
	for _, ev := range s.queue {
		if t := ev.Type(); t < minType || t > maxType {
			kept = append(kept, ev)
		}
	}
	s.queue = kept
}

func (s *Library) GetModState() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("GetModState")
	return s.modState
}

// deviceEvent queues a device hotplug event the way SDL's event watchers
// would. Must hold s.mu.
func (s *Library) deviceEvent(eventType, which uint32) {
	var ev native.RawEvent
	binary.LittleEndian.PutUint32(ev[0:], eventType)
	binary.LittleEndian.PutUint32(ev[16:], which)
	s.pushLocked(&ev)
}
