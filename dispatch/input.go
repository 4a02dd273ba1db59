package dispatch

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/events"
	"github.com/wippyai/sdl-bridge/marshal"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

func inputEntries() []*Entry {
	gamepad := func(extra ...Param) []Param {
		return append([]Param{borrow("gamepad", resource.KindGamepad)}, extra...)
	}

	entries := []*Entry{
		{
			Name:   "PumpEvents",
			Affine: true,
			invoke: func(c *call) (any, error) {
				return nil, c.d.events.PumpEvents()
			},
		},
		{
			Name:   "PollEvent",
			Affine: true,
			invoke: func(c *call) (any, error) {
				return describe(c.d.events.PollNext())
			},
		},
		{
			Name:   "WaitEventTimeout",
			Params: []Param{param("timeout-ms", wit.S32{})},
			Affine: true,
			invoke: func(c *call) (any, error) {
				return describe(c.d.events.WaitNext(c.ctx, c.s32(0)))
			},
		},
		{
			Name:       "PushEvent",
			Params:     []Param{{Name: "event", Check: checkEvent}},
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				ev, err := events.Parse(c.raw[0].(map[string]any))
				if err != nil {
					return nil, errors.Argument(c.e.Name, 0, err, "parameter %q", "event")
				}
				return nil, c.d.events.Push(ev)
			},
		},
		{
			Name:   "HasEvent",
			Params: []Param{param("type", wit.U32{})},
			Result: wit.Bool{},
			invoke: func(c *call) (any, error) {
				return c.d.events.HasEvent(c.u32(0)), nil
			},
		},
		{
			Name:   "FlushEvents",
			Params: []Param{param("min-type", wit.U32{}), param("max-type", wit.U32{})},
			invoke: func(c *call) (any, error) {
				c.d.events.FlushEvents(c.u32(0), c.u32(1))
				return nil, nil
			},
		},
		{
			Name:   "GetModState",
			Result: wit.U16{},
			Affine: true,
			invoke: func(c *call) (any, error) {
				return c.d.lib.GetModState(), nil
			},
		},
		{
			Name:       "GetGamepads",
			Result:     idListSchema,
			Convention: native.ConvNull,
			Affine:     true,
			Requires:   native.InitGamepad,
			invoke: func(c *call) (any, error) {
				return c.ids(c.d.lib.GetGamepads())
			},
		},
		{
			Name:       "OpenGamepad",
			Params:     []Param{param("id", wit.U32{})},
			Result:     marshal.Handle(resource.KindGamepad),
			Convention: native.ConvNull,
			Affine:     true,
			Requires:   native.InitGamepad,
			invoke: func(c *call) (any, error) {
				return created(c.d.mgr.OpenGamepad(c.u32(0)))
			},
		},
		{
			Name:   "CloseGamepad",
			Params: []Param{own("gamepad", resource.KindGamepad)},
			Affine: true,
			invoke: func(c *call) (any, error) {
				return nil, c.d.mgr.CloseGamepad(c.handle(0))
			},
		},
		{
			Name:       "GetGamepadName",
			Params:     gamepad(),
			Result:     wit.String{},
			Convention: native.ConvNull,
			Affine:     true,
			invoke: func(c *call) (any, error) {
				return c.text(c.d.lib.GetGamepadName(c.addr(0)))
			},
		},
		{
			Name:   "GetGamepadButton",
			Params: gamepad(param("button", wit.S32{})),
			Result: wit.Bool{},
			Affine: true,
			invoke: func(c *call) (any, error) {
				return c.d.lib.GetGamepadButton(c.addr(0), c.s32(1)), nil
			},
		},
		{
			Name:   "GetGamepadAxis",
			Params: gamepad(param("axis", wit.S32{})),
			Result: wit.S16{},
			Affine: true,
			invoke: func(c *call) (any, error) {
				return c.d.lib.GetGamepadAxis(c.addr(0), c.s32(1)), nil
			},
		},
	}
	for _, e := range entries {
		e.Family = FamilyInput
	}
	return entries
}

// describe turns a translator read into the caller-facing event map, nil
// when no event was pending.
func describe(ev events.Event, ok bool, err error) (any, error) {
	if err != nil || !ok {
		return nil, err
	}
	return events.Describe(ev)
}

func checkEvent(v any) error {
	desc, ok := v.(map[string]any)
	if !ok {
		return errors.ShapeMismatch(nil, v, "event", "expected event record, got %T", v)
	}
	_, err := events.Parse(desc)
	return err
}
