package dispatch

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sdl-bridge/marshal"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

func videoEntries() []*Entry {
	window := func(extra ...Param) []Param {
		return append([]Param{borrow("window", resource.KindWindow)}, extra...)
	}
	renderer := func(extra ...Param) []Param {
		return append([]Param{borrow("renderer", resource.KindRenderer)}, extra...)
	}
	rect := Param{Name: "rect", Type: marshal.Option(marshal.FRectSchema)}

	entries := []*Entry{
		{
			Name:   "GetNumVideoDrivers",
			Result: wit.S32{},
			invoke: func(c *call) (any, error) {
				return c.d.lib.GetNumVideoDrivers(), nil
			},
		},
		{
			Name:       "GetVideoDriver",
			Params:     []Param{param("index", wit.S32{})},
			Result:     wit.String{},
			Convention: native.ConvNull,
			invoke: func(c *call) (any, error) {
				return c.text(c.d.lib.GetVideoDriver(c.s32(0)))
			},
		},
		{
			Name:       "GetCurrentVideoDriver",
			Result:     wit.String{},
			Convention: native.ConvNull,
			invoke: func(c *call) (any, error) {
				return c.text(c.d.lib.GetCurrentVideoDriver())
			},
		},
		{
			Name: "CreateWindow",
			Params: []Param{
				param("title", wit.String{}),
				param("w", wit.S32{}),
				param("h", wit.S32{}),
				param("flags", wit.U64{}),
			},
			Result:     marshal.Handle(resource.KindWindow),
			Convention: native.ConvNull,
			Requires:   native.InitVideo,
			invoke: func(c *call) (any, error) {
				return created(c.d.mgr.CreateWindow(c.str(0), c.s32(1), c.s32(2), c.u64(3)))
			},
		},
		{
			Name:   "DestroyWindow",
			Params: []Param{own("window", resource.KindWindow)},
			invoke: func(c *call) (any, error) {
				return nil, c.d.mgr.DestroyWindow(c.handle(0))
			},
		},
		{
			Name:       "GetWindowID",
			Params:     window(),
			Result:     wit.U32{},
			Convention: native.ConvZeroID,
			invoke: func(c *call) (any, error) {
				id := c.d.lib.GetWindowID(c.addr(0))
				return c.value(id, id)
			},
		},
		{
			Name:   "GetWindowFromID",
			Params: []Param{param("id", wit.U32{})},
			Result: marshal.Option(marshal.Borrow(resource.KindWindow)),
			invoke: func(c *call) (any, error) {
				if h, ok := c.d.mgr.WindowByID(c.u32(0)); ok {
					return h, nil
				}
				return nil, nil
			},
		},
		{
			Name:       "SetWindowTitle",
			Params:     window(param("title", wit.String{})),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.SetWindowTitle(c.addr(0), c.str(1)))
			},
		},
		{
			Name:   "GetWindowTitle",
			Params: window(),
			Result: wit.String{},
			invoke: func(c *call) (any, error) {
				return c.d.lib.GetWindowTitle(c.addr(0)), nil
			},
		},
		{
			Name:       "SetWindowSize",
			Params:     window(param("w", wit.S32{}), param("h", wit.S32{})),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.SetWindowSize(c.addr(0), c.s32(1), c.s32(2)))
			},
		},
		{
			Name:       "GetWindowSize",
			Params:     window(),
			Result:     sizeSchema,
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				w, h, ok := c.d.lib.GetWindowSize(c.addr(0))
				return c.value(size{W: w, H: h}, ok)
			},
		},
		{
			Name:       "SetWindowPosition",
			Params:     window(param("x", wit.S32{}), param("y", wit.S32{})),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.SetWindowPosition(c.addr(0), c.s32(1), c.s32(2)))
			},
		},
		{
			Name:       "GetWindowPosition",
			Params:     window(),
			Result:     pointSchema,
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				x, y, ok := c.d.lib.GetWindowPosition(c.addr(0))
				return c.value(point{X: x, Y: y}, ok)
			},
		},
		{
			Name:   "GetWindowFlags",
			Params: window(),
			Result: wit.U64{},
			invoke: func(c *call) (any, error) {
				return c.d.lib.GetWindowFlags(c.addr(0)), nil
			},
		},
		{
			Name:       "ShowWindow",
			Params:     window(),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.ShowWindow(c.addr(0)))
			},
		},
		{
			Name:       "HideWindow",
			Params:     window(),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.HideWindow(c.addr(0)))
			},
		},
		{
			Name:       "CreateRenderer",
			Params:     window(param("name", marshal.Option(wit.String{}))),
			Result:     marshal.Handle(resource.KindRenderer),
			Convention: native.ConvNull,
			invoke: func(c *call) (any, error) {
				return created(c.d.mgr.CreateRenderer(c.handle(0), c.optString(1)))
			},
		},
		{
			Name:   "DestroyRenderer",
			Params: []Param{own("renderer", resource.KindRenderer)},
			invoke: func(c *call) (any, error) {
				return nil, c.d.mgr.DestroyRenderer(c.handle(0))
			},
		},
		{
			Name:       "GetRendererName",
			Params:     renderer(),
			Result:     wit.String{},
			Convention: native.ConvNull,
			invoke: func(c *call) (any, error) {
				return c.text(c.d.lib.GetRendererName(c.addr(0)))
			},
		},
		{
			Name: "SetRenderDrawColor",
			Params: renderer(
				param("r", wit.U8{}),
				param("g", wit.U8{}),
				param("b", wit.U8{}),
				param("a", wit.U8{}),
			),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				col := native.Color{R: c.u8(1), G: c.u8(2), B: c.u8(3), A: c.u8(4)}
				return c.done(c.d.lib.SetRenderDrawColor(c.addr(0), col))
			},
		},
		{
			Name:       "GetRenderDrawColor",
			Params:     renderer(),
			Result:     marshal.ColorSchema,
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				col, ok := c.d.lib.GetRenderDrawColor(c.addr(0))
				return c.value(col, ok)
			},
		},
		{
			Name:       "RenderClear",
			Params:     renderer(),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.RenderClear(c.addr(0)))
			},
		},
		{
			Name:       "RenderFillRect",
			Params:     renderer(rect),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				r, err := c.rect(1)
				if err != nil {
					return nil, err
				}
				return c.done(c.d.lib.RenderFillRect(c.addr(0), r))
			},
		},
		{
			Name:       "RenderRect",
			Params:     renderer(rect),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				r, err := c.rect(1)
				if err != nil {
					return nil, err
				}
				return c.done(c.d.lib.RenderRect(c.addr(0), r))
			},
		},
		{
			Name: "RenderLine",
			Params: renderer(
				param("x1", wit.F32{}),
				param("y1", wit.F32{}),
				param("x2", wit.F32{}),
				param("y2", wit.F32{}),
			),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.RenderLine(c.addr(0), c.f32(1), c.f32(2), c.f32(3), c.f32(4)))
			},
		},
		{
			Name:       "RenderPoint",
			Params:     renderer(param("x", wit.F32{}), param("y", wit.F32{})),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.RenderPoint(c.addr(0), c.f32(1), c.f32(2)))
			},
		},
		{
			Name:       "RenderPresent",
			Params:     renderer(),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.RenderPresent(c.addr(0)))
			},
		},
		{
			Name:       "SetClipboardText",
			Params:     []Param{param("text", wit.String{})},
			Convention: native.ConvBool,
			Requires:   native.InitVideo,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.SetClipboardText(c.str(0)))
			},
		},
		{
			Name:   "GetClipboardText",
			Result: marshal.Option(wit.String{}),
			invoke: func(c *call) (any, error) {
				if text := c.d.lib.GetClipboardText(); text != "" {
					return text, nil
				}
				return nil, nil
			},
		},
		{
			Name:   "HasClipboardText",
			Result: wit.Bool{},
			invoke: func(c *call) (any, error) {
				return c.d.lib.HasClipboardText(), nil
			},
		},
	}
	for _, e := range entries {
		e.Family = FamilyVideo
		e.Affine = true
	}
	return entries
}

// rect returns the optional rectangle at i, nil meaning the whole target.
func (c *call) rect(i int) (*native.FRect, error) {
	if c.raw[i] == nil {
		return nil, nil
	}
	var r native.FRect
	if err := c.into(i, marshal.FRectSchema, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
