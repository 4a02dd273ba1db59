package events

import (
	"encoding/base64"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/marshal"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

var (
	windowSchema = marshal.Named("window-event", marshal.Record(
		marshal.Field("window", marshal.Borrow(resource.KindWindow)),
		marshal.Field("window-id", wit.U32{}),
		marshal.Field("data1", wit.S32{}),
		marshal.Field("data2", wit.S32{}),
	))
	keyboardSchema = marshal.Named("keyboard-event", marshal.Record(
		marshal.Field("window", marshal.Borrow(resource.KindWindow)),
		marshal.Field("window-id", wit.U32{}),
		marshal.Field("which", wit.U32{}),
		marshal.Field("scancode", wit.U32{}),
		marshal.Field("key", wit.U32{}),
		marshal.Field("mod", wit.U16{}),
		marshal.Field("raw", wit.U16{}),
		marshal.Field("down", wit.Bool{}),
		marshal.Field("repeat", wit.Bool{}),
	))
	mouseMotionSchema = marshal.Named("mouse-motion-event", marshal.Record(
		marshal.Field("window", marshal.Borrow(resource.KindWindow)),
		marshal.Field("window-id", wit.U32{}),
		marshal.Field("which", wit.U32{}),
		marshal.Field("state", wit.U32{}),
		marshal.Field("x", wit.F32{}),
		marshal.Field("y", wit.F32{}),
		marshal.Field("xrel", wit.F32{}),
		marshal.Field("yrel", wit.F32{}),
	))
	mouseButtonSchema = marshal.Named("mouse-button-event", marshal.Record(
		marshal.Field("window", marshal.Borrow(resource.KindWindow)),
		marshal.Field("window-id", wit.U32{}),
		marshal.Field("which", wit.U32{}),
		marshal.Field("button", wit.U8{}),
		marshal.Field("down", wit.Bool{}),
		marshal.Field("clicks", wit.U8{}),
		marshal.Field("x", wit.F32{}),
		marshal.Field("y", wit.F32{}),
	))
	mouseWheelSchema = marshal.Named("mouse-wheel-event", marshal.Record(
		marshal.Field("window", marshal.Borrow(resource.KindWindow)),
		marshal.Field("window-id", wit.U32{}),
		marshal.Field("which", wit.U32{}),
		marshal.Field("x", wit.F32{}),
		marshal.Field("y", wit.F32{}),
		marshal.Field("direction", wit.U32{}),
		marshal.Field("mouse-x", wit.F32{}),
		marshal.Field("mouse-y", wit.F32{}),
	))
	gamepadAxisSchema = marshal.Named("gamepad-axis-event", marshal.Record(
		marshal.Field("gamepad", marshal.Borrow(resource.KindGamepad)),
		marshal.Field("which", wit.U32{}),
		marshal.Field("axis", wit.U8{}),
		marshal.Field("value", wit.S16{}),
	))
	gamepadButtonSchema = marshal.Named("gamepad-button-event", marshal.Record(
		marshal.Field("gamepad", marshal.Borrow(resource.KindGamepad)),
		marshal.Field("which", wit.U32{}),
		marshal.Field("button", wit.U8{}),
		marshal.Field("down", wit.Bool{}),
	))
	gamepadDeviceSchema = marshal.Named("gamepad-device-event", marshal.Record(
		marshal.Field("gamepad", marshal.Borrow(resource.KindGamepad)),
		marshal.Field("which", wit.U32{}),
	))
	audioDeviceSchema = marshal.Named("audio-device-event", marshal.Record(
		marshal.Field("device", marshal.Borrow(resource.KindAudioDevice)),
		marshal.Field("which", wit.U32{}),
		marshal.Field("recording", wit.Bool{}),
	))
	userSchema = marshal.Named("user-event", marshal.Record(
		marshal.Field("window", marshal.Borrow(resource.KindWindow)),
		marshal.Field("window-id", wit.U32{}),
		marshal.Field("code", wit.S32{}),
	))
	emptySchema = marshal.Record()
)

// Schema returns the record schema describing the variant-specific fields
// of ev. The common type and timestamp fields are not part of it.
func Schema(ev Event) *wit.TypeDef {
	switch ev.(type) {
	case Window:
		return windowSchema
	case Keyboard:
		return keyboardSchema
	case MouseMotion:
		return mouseMotionSchema
	case MouseButton:
		return mouseButtonSchema
	case MouseWheel:
		return mouseWheelSchema
	case GamepadAxis:
		return gamepadAxisSchema
	case GamepadButton:
		return gamepadButtonSchema
	case GamepadDevice:
		return gamepadDeviceSchema
	case AudioDevice:
		return audioDeviceSchema
	case User:
		return userSchema
	}
	return emptySchema
}

// Describe encodes ev as a caller-facing map: "type" (name), "type-code",
// "timestamp" and the variant fields in kebab-case. Generic events carry
// their raw bytes base64-encoded under "raw".
func Describe(ev Event) (map[string]any, error) {
	c := ev.Header()
	out := map[string]any{
		"type":      Name(c.Type),
		"type-code": c.Type,
		"timestamp": c.Timestamp,
	}
	if g, ok := ev.(Generic); ok {
		out["raw"] = base64.StdEncoding.EncodeToString(g.Raw[:])
		return out, nil
	}
	fields, err := marshal.Encode(ev, Schema(ev))
	if err != nil {
		return nil, err
	}
	for k, v := range fields.(map[string]any) {
		out[k] = v
	}
	return out, nil
}

// Parse is the inverse of Describe for pushable variants. "type" may be a
// name or a numeric code; variant fields are optional and default to zero.
func Parse(desc map[string]any) (Event, error) {
	typ, err := parseType(desc)
	if err != nil {
		return nil, err
	}
	var ts uint64
	if v, ok := desc["timestamp"]; ok {
		d, err := marshal.Decode(v, wit.U64{})
		if err != nil {
			return nil, err
		}
		ts = d.(uint64)
	}
	c := Common{Type: typ, Timestamp: ts}

	var ev Event
	switch {
	case typ == native.EventQuit:
		ev = Quit{Common: c}
	case isWindow(typ):
		ev = Window{Common: c}
	case typ == native.EventKeyDown || typ == native.EventKeyUp:
		ev = Keyboard{Common: c}
	case typ == native.EventMouseMotion:
		ev = MouseMotion{Common: c}
	case typ == native.EventMouseButtonDown || typ == native.EventMouseButtonUp:
		ev = MouseButton{Common: c}
	case typ == native.EventMouseWheel:
		ev = MouseWheel{Common: c}
	case typ == native.EventGamepadAxisMotion:
		ev = GamepadAxis{Common: c}
	case typ == native.EventGamepadButtonDown || typ == native.EventGamepadButtonUp:
		ev = GamepadButton{Common: c}
	case isUser(typ):
		ev = User{Common: c}
	default:
		return nil, errors.UnsupportedEventKind(typ, Name(typ))
	}

	fields := make(map[string]any, len(desc))
	for k, v := range desc {
		switch k {
		case "type", "type-code", "timestamp":
			continue
		}
		fields[k] = v
	}
	return fill(ev, fields)
}

func parseType(desc map[string]any) (uint32, error) {
	v, ok := desc["type"]
	if !ok {
		v, ok = desc["type-code"]
	}
	if !ok {
		return 0, errors.ShapeMismatch([]string{"type"}, nil, "string | u32", "missing event type")
	}
	if name, ok := v.(string); ok {
		code, known := Code(name)
		if !known {
			return 0, errors.ShapeMismatch([]string{"type"}, v, "string", "unknown event type %q", name)
		}
		return code, nil
	}
	d, err := marshal.Decode(v, wit.U32{})
	if err != nil {
		return 0, err
	}
	return d.(uint32), nil
}

// fill decodes the variant fields into a copy of ev.
func fill(ev Event, fields map[string]any) (Event, error) {
	schema := optional(Schema(ev))
	var err error
	switch e := ev.(type) {
	case Quit:
		if len(fields) > 0 {
			err = marshal.DecodeInto(fields, schema, &struct{}{})
		}
	case Window:
		err = marshal.DecodeInto(fields, schema, &e)
		ev = e
	case Keyboard:
		err = marshal.DecodeInto(fields, schema, &e)
		ev = e
	case MouseMotion:
		err = marshal.DecodeInto(fields, schema, &e)
		ev = e
	case MouseButton:
		err = marshal.DecodeInto(fields, schema, &e)
		ev = e
	case MouseWheel:
		err = marshal.DecodeInto(fields, schema, &e)
		ev = e
	case GamepadAxis:
		err = marshal.DecodeInto(fields, schema, &e)
		ev = e
	case GamepadButton:
		err = marshal.DecodeInto(fields, schema, &e)
		ev = e
	case User:
		err = marshal.DecodeInto(fields, schema, &e)
		ev = e
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// optional returns a copy of a record schema with every field wrapped in
// an option.
func optional(td *wit.TypeDef) *wit.TypeDef {
	rec, ok := td.Kind.(*wit.Record)
	if !ok {
		return td
	}
	fields := make([]wit.Field, len(rec.Fields))
	for i, f := range rec.Fields {
		fields[i] = marshal.Field(f.Name, marshal.Option(f.Type))
	}
	return marshal.Record(fields...)
}
