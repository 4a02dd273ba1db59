package sim

import (
	"fmt"

	"github.com/wippyai/sdl-bridge/native"
)

const (
	numGamepadButtons = 26
	numGamepadAxes    = 6
)

type joystick struct {
	name    string
	buttons [numGamepadButtons]bool
	axes    [numGamepadAxes]int16
}

// ConnectGamepad attaches a simulated gamepad and queues a gamepad-added
// event. It returns the joystick instance ID.
func (s *Library) ConnectGamepad(name string) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextJoystickID
	s.nextJoystickID++
	s.joysticks[id] = &joystick{name: name}
	if s.initialized&native.InitGamepad != 0 {
		s.deviceEvent(native.EventGamepadAdded, id)
	}
	return id
}

// DisconnectGamepad detaches a gamepad and queues a gamepad-removed event.
// Open gamepad objects stay allocated until closed.
func (s *Library) DisconnectGamepad(id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.joysticks[id]; !ok {
		return
	}
	delete(s.joysticks, id)
	if s.initialized&native.InitGamepad != 0 {
		s.deviceEvent(native.EventGamepadRemoved, id)
	}
}

// SetGamepadButton sets a button on a connected gamepad.
func (s *Library) SetGamepadButton(id uint32, button int, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.joysticks[id]; ok && button >= 0 && button < numGamepadButtons {
		j.buttons[button] = down
	}
}

// SetGamepadAxis sets an axis on a connected gamepad.
func (s *Library) SetGamepadAxis(id uint32, axis int, value int16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.joysticks[id]; ok && axis >= 0 && axis < numGamepadAxes {
		j.axes[axis] = value
	}
}

func (s *Library) GetGamepads() ([]uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetGamepads") || !s.requires(native.InitGamepad, "Gamepad") {
		return nil, false
	}
	ids := make([]uint32, 0, len(s.joysticks))
	for id := uint32(1); id < s.nextJoystickID; id++ {
		if _, ok := s.joysticks[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids, true
}

func (s *Library) OpenGamepad(id uint32) native.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("OpenGamepad") || !s.requires(native.InitGamepad, "Gamepad") {
		return 0
	}
	if _, ok := s.joysticks[id]; !ok {
		return s.failAddr(fmt.Sprintf("Joystick %d isn't a gamepad", id))
	}
	// SDL returns the same object for repeated opens of one device.
	for addr, jid := range s.gamepads {
		if jid == id {
			return addr
		}
	}
	addr := s.alloc()
	s.gamepads[addr] = id
	return addr
}

func (s *Library) CloseGamepad(g native.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("CloseGamepad")
	if _, ok := s.gamepads[g]; !ok {
		s.setError("Invalid gamepad")
		return
	}
	delete(s.gamepads, g)
	s.release(g)
}

// joystickFor returns the connected joystick behind an open gamepad. Must hold s.mu.
func (s *Library) joystickFor(g native.Address) (uint32, *joystick, bool) {
	id, ok := s.gamepads[g]
	if !ok {
		s.setError("Invalid gamepad")
		return 0, nil, false
	}
	j, ok := s.joysticks[id]
	if !ok {
		s.setError("Gamepad disconnected")
		return id, nil, false
	}
	return id, j, true
}

func (s *Library) GetGamepadID(g native.Address) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetGamepadID") {
		return 0
	}
	id, ok := s.gamepads[g]
	if !ok {
		s.setError("Invalid gamepad")
	}
	return id
}

func (s *Library) GetGamepadName(g native.Address) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetGamepadName") {
		return "", false
	}
	_, j, ok := s.joystickFor(g)
	if !ok {
		return "", false
	}
	return j.name, true
}

func (s *Library) GetGamepadButton(g native.Address, button int32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("GetGamepadButton")
	_, j, ok := s.joystickFor(g)
	if !ok || button < 0 || button >= numGamepadButtons {
		return false
	}
	return j.buttons[button]
}

func (s *Library) GetGamepadAxis(g native.Address, axis int32) int16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("GetGamepadAxis")
	_, j, ok := s.joystickFor(g)
	if !ok || axis < 0 || axis >= numGamepadAxes {
		return 0
	}
	return j.axes[axis]
}
