package events

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

// Field offsets inside the native event union. Every variant starts with
// type (u32), a reserved u32 and the timestamp (u64).
const (
	offType      = 0
	offTimestamp = 8
	offBody      = 16
)

// Resolver maps native IDs carried by events to live handles.
type Resolver interface {
	WindowByID(id uint32) (resource.Handle, bool)
	GamepadByID(id uint32) (resource.Handle, bool)
	AudioDeviceByID(id uint32) (resource.Handle, bool)
}

type noResolver struct{}

func (noResolver) WindowByID(uint32) (resource.Handle, bool)      { return 0, false }
func (noResolver) GamepadByID(uint32) (resource.Handle, bool)     { return 0, false }
func (noResolver) AudioDeviceByID(uint32) (resource.Handle, bool) { return 0, false }

type reader struct{ b *native.RawEvent }

func (r reader) u8(off int) uint8    { return r.b[off] }
func (r reader) flag(off int) bool   { return r.b[off] != 0 }
func (r reader) u16(off int) uint16  { return binary.LittleEndian.Uint16(r.b[off:]) }
func (r reader) u32(off int) uint32  { return binary.LittleEndian.Uint32(r.b[off:]) }
func (r reader) s16(off int) int16   { return int16(r.u16(off)) }
func (r reader) s32(off int) int32   { return int32(r.u32(off)) }
func (r reader) f32(off int) float32 { return math.Float32frombits(r.u32(off)) }

type writer struct{ b *native.RawEvent }

func (w writer) u8(off int, v uint8) { w.b[off] = v }
func (w writer) flag(off int, v bool) {
	if v {
		w.b[off] = 1
	}
}
func (w writer) u16(off int, v uint16)  { binary.LittleEndian.PutUint16(w.b[off:], v) }
func (w writer) u32(off int, v uint32)  { binary.LittleEndian.PutUint32(w.b[off:], v) }
func (w writer) u64(off int, v uint64)  { binary.LittleEndian.PutUint64(w.b[off:], v) }
func (w writer) s16(off int, v int16)   { w.u16(off, uint16(v)) }
func (w writer) s32(off int, v int32)   { w.u32(off, uint32(v)) }
func (w writer) f32(off int, v float32) { w.u32(off, math.Float32bits(v)) }

// Decode converts a raw native event into its typed variant. It never
// fails; unknown discriminators produce a Generic event. ids may be nil.
func Decode(raw *native.RawEvent, ids Resolver) Event {
	if ids == nil {
		ids = noResolver{}
	}
	r := reader{raw}
	c := Common{Type: raw.Type(), Timestamp: raw.Timestamp()}
	window := func(id uint32) resource.Handle {
		h, _ := ids.WindowByID(id)
		return h
	}
	gamepad := func(id uint32) resource.Handle {
		h, _ := ids.GamepadByID(id)
		return h
	}

	switch t := c.Type; {
	case t == native.EventQuit:
		return Quit{Common: c}
	case isWindow(t):
		id := r.u32(offBody)
		return Window{Common: c, Window: window(id), WindowID: id, Data1: r.s32(20), Data2: r.s32(24)}
	case t == native.EventKeyDown || t == native.EventKeyUp:
		id := r.u32(offBody)
		return Keyboard{
			Common: c, Window: window(id), WindowID: id,
			Which: r.u32(20), Scancode: r.u32(24), Key: r.u32(28),
			Mod: r.u16(32), Raw: r.u16(34), Down: r.flag(36), Repeat: r.flag(37),
		}
	case t == native.EventMouseMotion:
		id := r.u32(offBody)
		return MouseMotion{
			Common: c, Window: window(id), WindowID: id,
			Which: r.u32(20), State: r.u32(24),
			X: r.f32(28), Y: r.f32(32), XRel: r.f32(36), YRel: r.f32(40),
		}
	case t == native.EventMouseButtonDown || t == native.EventMouseButtonUp:
		id := r.u32(offBody)
		return MouseButton{
			Common: c, Window: window(id), WindowID: id,
			Which: r.u32(20), Button: r.u8(24), Down: r.flag(25), Clicks: r.u8(26),
			X: r.f32(28), Y: r.f32(32),
		}
	case t == native.EventMouseWheel:
		id := r.u32(offBody)
		return MouseWheel{
			Common: c, Window: window(id), WindowID: id,
			Which: r.u32(20), X: r.f32(24), Y: r.f32(28), Direction: r.u32(32),
			MouseX: r.f32(36), MouseY: r.f32(40),
		}
	case t == native.EventGamepadAxisMotion:
		id := r.u32(offBody)
		return GamepadAxis{Common: c, Gamepad: gamepad(id), Which: id, Axis: r.u8(20), Value: r.s16(24)}
	case t == native.EventGamepadButtonDown || t == native.EventGamepadButtonUp:
		id := r.u32(offBody)
		return GamepadButton{Common: c, Gamepad: gamepad(id), Which: id, Button: r.u8(20), Down: r.flag(21)}
	case t == native.EventGamepadAdded || t == native.EventGamepadRemoved || t == native.EventGamepadRemapped:
		id := r.u32(offBody)
		return GamepadDevice{Common: c, Gamepad: gamepad(id), Which: id}
	case t == native.EventAudioDeviceAdded || t == native.EventAudioDeviceRemoved || t == native.EventAudioDeviceFormatChanged:
		id := r.u32(offBody)
		dev, _ := ids.AudioDeviceByID(id)
		return AudioDevice{Common: c, Device: dev, Which: id, Recording: r.flag(20)}
	case isUser(t):
		id := r.u32(offBody)
		return User{Common: c, Window: window(id), WindowID: id, Code: r.s32(20)}
	}
	return Generic{Common: c, Raw: *raw}
}

// Encode converts ev into a raw native event for pushing. Variants the
// native library owns (device hotplug) and Generic events fail with an
// unsupported-event-kind error. A zero Type is filled in where the variant
// implies one.
func Encode(ev Event) (*native.RawEvent, error) {
	raw := new(native.RawEvent)
	w := writer{raw}
	c := ev.Header()
	typ := c.Type

	switch e := ev.(type) {
	case Quit:
		typ = orDefault(typ, native.EventQuit)
		if typ != native.EventQuit {
			return nil, mismatchedType(ev, typ)
		}
	case Window:
		if !isWindow(typ) {
			return nil, mismatchedType(ev, typ)
		}
		w.u32(offBody, e.WindowID)
		w.s32(20, e.Data1)
		w.s32(24, e.Data2)
	case Keyboard:
		typ = orDefault(typ, pick(e.Down, native.EventKeyDown, native.EventKeyUp))
		if typ != native.EventKeyDown && typ != native.EventKeyUp {
			return nil, mismatchedType(ev, typ)
		}
		w.u32(offBody, e.WindowID)
		w.u32(20, e.Which)
		w.u32(24, e.Scancode)
		w.u32(28, e.Key)
		w.u16(32, e.Mod)
		w.u16(34, e.Raw)
		w.flag(36, e.Down)
		w.flag(37, e.Repeat)
	case MouseMotion:
		typ = orDefault(typ, native.EventMouseMotion)
		if typ != native.EventMouseMotion {
			return nil, mismatchedType(ev, typ)
		}
		w.u32(offBody, e.WindowID)
		w.u32(20, e.Which)
		w.u32(24, e.State)
		w.f32(28, e.X)
		w.f32(32, e.Y)
		w.f32(36, e.XRel)
		w.f32(40, e.YRel)
	case MouseButton:
		typ = orDefault(typ, pick(e.Down, native.EventMouseButtonDown, native.EventMouseButtonUp))
		if typ != native.EventMouseButtonDown && typ != native.EventMouseButtonUp {
			return nil, mismatchedType(ev, typ)
		}
		w.u32(offBody, e.WindowID)
		w.u32(20, e.Which)
		w.u8(24, e.Button)
		w.flag(25, e.Down)
		w.u8(26, e.Clicks)
		w.f32(28, e.X)
		w.f32(32, e.Y)
	case MouseWheel:
		typ = orDefault(typ, native.EventMouseWheel)
		if typ != native.EventMouseWheel {
			return nil, mismatchedType(ev, typ)
		}
		w.u32(offBody, e.WindowID)
		w.u32(20, e.Which)
		w.f32(24, e.X)
		w.f32(28, e.Y)
		w.u32(32, e.Direction)
		w.f32(36, e.MouseX)
		w.f32(40, e.MouseY)
	case GamepadAxis:
		typ = orDefault(typ, native.EventGamepadAxisMotion)
		if typ != native.EventGamepadAxisMotion {
			return nil, mismatchedType(ev, typ)
		}
		w.u32(offBody, e.Which)
		w.u8(20, e.Axis)
		w.s16(24, e.Value)
	case GamepadButton:
		typ = orDefault(typ, pick(e.Down, native.EventGamepadButtonDown, native.EventGamepadButtonUp))
		if typ != native.EventGamepadButtonDown && typ != native.EventGamepadButtonUp {
			return nil, mismatchedType(ev, typ)
		}
		w.u32(offBody, e.Which)
		w.u8(20, e.Button)
		w.flag(21, e.Down)
	case User:
		typ = orDefault(typ, native.EventUser)
		if !isUser(typ) {
			return nil, mismatchedType(ev, typ)
		}
		w.u32(offBody, e.WindowID)
		w.s32(20, e.Code)
	case GamepadDevice, AudioDevice, Generic:
		return nil, errors.UnsupportedEventKind(typ, Name(typ))
	default:
		return nil, errors.UnsupportedEventKind(typ, "foreign")
	}

	w.u32(offType, typ)
	w.u64(offTimestamp, c.Timestamp)
	return raw, nil
}

func orDefault(t, def uint32) uint32 {
	if t == 0 {
		return def
	}
	return t
}

func pick(cond bool, a, b uint32) uint32 {
	if cond {
		return a
	}
	return b
}

func mismatchedType(ev Event, typ uint32) error {
	return errors.New(errors.PhaseEvent, errors.KindArgument).
		Value(typ).
		Detail("type %#x (%s) does not match %T", typ, Name(typ), ev).
		Build()
}
