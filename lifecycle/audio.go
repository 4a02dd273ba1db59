package lifecycle

import (
	"go.uber.org/zap"

	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

// PostmixFunc receives a private copy of each mixed device buffer. It runs
// on the native audio thread.
type PostmixFunc func(spec native.AudioSpec, samples []float32)

// StreamFunc is told that a stream needs more data. It runs on the native
// audio thread, possibly inside a leased call on the stream, so it must not
// destroy resources.
type StreamFunc func(stream resource.Handle, additional, total int32)

// OpenAudioDevice opens a logical device on the physical device (or
// default-device ID) dev. A nil spec keeps the device's preferred format.
func (m *Manager) OpenAudioDevice(dev uint32, spec *native.AudioSpec) (resource.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.lib.OpenAudioDevice(dev, spec)
	if err := native.Check(m.lib, "OpenAudioDevice", native.ConvZeroID, id); err != nil {
		return 0, err
	}
	rec := newRecord(resource.KindAudioDevice, native.Address(id), nil)
	rec.ID = id
	return m.adopt(rec, func() { m.lib.CloseAudioDevice(id) })
}

// CloseAudioDevice closes a logical device. Streams bound to it are
// unbound but stay alive.
func (m *Manager) CloseAudioDevice(h resource.Handle) error {
	defer m.exclusive()()
	return m.release(h, resource.KindAudioDevice)
}

// DeviceID returns the native logical device ID behind h.
func (m *Manager) DeviceID(h resource.Handle) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, err := m.record(h, resource.KindAudioDevice)
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

// AudioDeviceByID maps a logical device ID to its handle.
func (m *Manager) AudioDeviceByID(id uint32) (resource.Handle, bool) {
	return m.reg.Lookup(resource.KindAudioDevice, native.Address(id))
}

// CreateAudioStream creates a conversion stream from src to dst.
func (m *Manager) CreateAudioStream(src, dst *native.AudioSpec) (resource.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	addr := m.lib.CreateAudioStream(src, dst)
	if err := native.Check(m.lib, "CreateAudioStream", native.ConvNull, addr); err != nil {
		return 0, err
	}
	return m.adopt(newRecord(resource.KindAudioStream, addr, nil), func() { m.lib.DestroyAudioStream(addr) })
}

// DestroyAudioStream destroys a stream, unbinding it first if needed.
func (m *Manager) DestroyAudioStream(h resource.Handle) error {
	defer m.exclusive()()
	return m.release(h, resource.KindAudioStream)
}

// BindStream binds stream to dev. Binding to the device it is already
// bound to is a no-op. A stream bound elsewhere is moved; if the native
// bind fails it is put back on its previous device.
func (m *Manager) BindStream(dev, stream resource.Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, err := m.record(dev, resource.KindAudioDevice)
	if err != nil {
		return err
	}
	s, err := m.record(stream, resource.KindAudioStream)
	if err != nil {
		return err
	}
	if s.bound == d {
		return nil
	}
	prev := s.bound
	if prev != nil {
		m.unbind(s)
	}
	ok := m.lib.BindAudioStream(d.ID, s.Addr)
	if err := native.Check(m.lib, "BindAudioStream", native.ConvBool, ok); err != nil {
		if prev != nil {
			m.rebind(prev, s)
		}
		return err
	}
	s.bound = d
	d.attach(s)
	return nil
}

// rebind restores a binding dropped by a failed move. Must hold m.mu.
func (m *Manager) rebind(dev, s *Record) {
	if !m.lib.BindAudioStream(dev.ID, s.Addr) {
		Logger().Warn("stream left unbound after failed move",
			zap.Stringer("stream", s.Handle),
			zap.Stringer("device", dev.Handle))
		return
	}
	s.bound = dev
	dev.attach(s)
}

// UnbindStream unbinds stream from its device. Unbinding a stream that is
// not bound is a no-op.
func (m *Manager) UnbindStream(stream resource.Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.record(stream, resource.KindAudioStream)
	if err != nil {
		return err
	}
	if s.bound != nil {
		m.unbind(s)
	}
	return nil
}

// unbind drops a live binding. Must hold m.mu.
func (m *Manager) unbind(s *Record) {
	m.lib.UnbindAudioStream(s.Addr)
	delete(s.bound.attached, s.Handle)
	s.bound = nil
}

// StreamDevice returns the device stream is bound to, or 0 when unbound.
func (m *Manager) StreamDevice(stream resource.Handle) (resource.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.record(stream, resource.KindAudioStream)
	if err != nil {
		return 0, err
	}
	return s.Bound(), nil
}

// SetPostmixCallback installs fn on dev, or removes the callback when fn
// is nil. fn never sees native memory.
func (m *Manager) SetPostmixCallback(dev resource.Handle, fn PostmixFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, err := m.record(dev, resource.KindAudioDevice)
	if err != nil {
		return err
	}
	var cb native.PostmixCallback
	if fn != nil {
		cb = func(spec native.AudioSpec, samples []float32) {
			fn(spec, append([]float32(nil), samples...))
		}
	}
	ok := m.lib.SetAudioPostmixCallback(d.ID, cb)
	return native.Check(m.lib, "SetAudioPostmixCallback", native.ConvBool, ok)
}

// SetStreamGetCallback installs fn on stream, or removes the callback when
// fn is nil. The stream is reported by handle; callbacks arriving after the
// stream was destroyed are dropped.
func (m *Manager) SetStreamGetCallback(stream resource.Handle, fn StreamFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.record(stream, resource.KindAudioStream)
	if err != nil {
		return err
	}
	var cb native.StreamCallback
	if fn != nil {
		reg := m.reg
		cb = func(addr native.Address, additional, total int32) {
			h, ok := reg.Lookup(resource.KindAudioStream, addr)
			if !ok {
				return
			}
			fn(h, additional, total)
		}
	}
	ok := m.lib.SetAudioStreamGetCallback(s.Addr, cb)
	return native.Check(m.lib, "SetAudioStreamGetCallback", native.ConvBool, ok)
}
