package lifecycle

import (
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

// OpenGamepad opens the gamepad with joystick instance ID id. Opening a
// gamepad that is already open returns the existing handle.
func (m *Manager) OpenGamepad(id uint32) (resource.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.affine("OpenGamepad"); err != nil {
		return 0, err
	}
	if h, ok := m.gamepads[id]; ok {
		return h, nil
	}
	addr := m.lib.OpenGamepad(id)
	if err := native.Check(m.lib, "OpenGamepad", native.ConvNull, addr); err != nil {
		return 0, err
	}
	rec := newRecord(resource.KindGamepad, addr, nil)
	rec.ID = id
	h, err := m.adopt(rec, func() { m.lib.CloseGamepad(addr) })
	if err != nil {
		return 0, err
	}
	m.gamepads[id] = h
	return h, nil
}

// CloseGamepad closes an open gamepad.
func (m *Manager) CloseGamepad(h resource.Handle) error {
	defer m.exclusive()()
	return m.release(h, resource.KindGamepad)
}

// GamepadByID maps a joystick instance ID to the open gamepad's handle.
func (m *Manager) GamepadByID(id uint32) (resource.Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.gamepads[id]
	return h, ok
}
