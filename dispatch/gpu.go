package dispatch

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/marshal"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

func gpuEntries() []*Entry {
	device := func(extra ...Param) []Param {
		return append([]Param{borrow("device", resource.KindGPUDevice)}, extra...)
	}
	release := func(name string, kind resource.Kind) *Entry {
		return &Entry{
			Name:   name,
			Params: device(own("object", kind)),
			invoke: func(c *call) (any, error) {
				parent, err := c.d.mgr.GPUParent(c.handle(1))
				if err != nil {
					return nil, err
				}
				if parent != c.addr(0) {
					return nil, errors.InvalidHandle(uint64(c.handle(1)), "object belongs to another GPU device")
				}
				return nil, c.d.mgr.ReleaseGPUObject(c.handle(1))
			},
		}
	}

	entries := []*Entry{
		{
			Name:   "GetNumGPUDrivers",
			Result: wit.S32{},
			invoke: func(c *call) (any, error) {
				return c.d.lib.GetNumGPUDrivers(), nil
			},
		},
		{
			Name:       "GetGPUDriver",
			Params:     []Param{param("index", wit.S32{})},
			Result:     wit.String{},
			Convention: native.ConvNull,
			invoke: func(c *call) (any, error) {
				return c.text(c.d.lib.GetGPUDriver(c.s32(0)))
			},
		},
		{
			Name:   "GPUSupportsShaderFormats",
			Params: []Param{param("formats", wit.U32{}), param("name", marshal.Option(wit.String{}))},
			Result: wit.Bool{},
			invoke: func(c *call) (any, error) {
				return c.d.lib.GPUSupportsShaderFormats(c.u32(0), c.optString(1)), nil
			},
		},
		{
			Name: "CreateGPUDevice",
			Params: []Param{
				param("formats", wit.U32{}),
				param("debug", wit.Bool{}),
				param("name", marshal.Option(wit.String{})),
			},
			Result:     marshal.Handle(resource.KindGPUDevice),
			Convention: native.ConvNull,
			invoke: func(c *call) (any, error) {
				return created(c.d.mgr.CreateGPUDevice(c.u32(0), c.flag(1), c.optString(2)))
			},
		},
		{
			Name:   "DestroyGPUDevice",
			Params: []Param{own("device", resource.KindGPUDevice)},
			invoke: func(c *call) (any, error) {
				return nil, c.d.mgr.DestroyGPUDevice(c.handle(0))
			},
		},
		{
			Name:       "GetGPUDeviceDriver",
			Params:     device(),
			Result:     wit.String{},
			Convention: native.ConvNull,
			invoke: func(c *call) (any, error) {
				return c.text(c.d.lib.GetGPUDeviceDriver(c.addr(0)))
			},
		},
		{
			Name:   "GetGPUShaderFormats",
			Params: device(),
			Result: wit.U32{},
			invoke: func(c *call) (any, error) {
				return c.d.lib.GetGPUShaderFormats(c.addr(0)), nil
			},
		},
		{
			Name:       "ClaimWindowForGPUDevice",
			Params:     device(borrow("window", resource.KindWindow)),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return nil, c.d.mgr.ClaimWindow(c.handle(0), c.handle(1))
			},
		},
		{
			Name:   "ReleaseWindowFromGPUDevice",
			Params: device(borrow("window", resource.KindWindow)),
			invoke: func(c *call) (any, error) {
				return nil, c.d.mgr.ReleaseWindow(c.handle(0), c.handle(1))
			},
		},
		{
			Name:       "CreateGPUBuffer",
			Params:     device(param("info", gpuBufferInfoSchema)),
			Result:     marshal.Handle(resource.KindGPUBuffer),
			Convention: native.ConvNull,
			invoke: func(c *call) (any, error) {
				var info native.GPUBufferCreateInfo
				if err := c.into(1, gpuBufferInfoSchema, &info); err != nil {
					return nil, err
				}
				return created(c.d.mgr.CreateGPUBuffer(c.handle(0), info))
			},
		},
		release("ReleaseGPUBuffer", resource.KindGPUBuffer),
		{
			Name:   "SetGPUBufferName",
			Params: device(borrow("buffer", resource.KindGPUBuffer), param("name", wit.String{})),
			invoke: func(c *call) (any, error) {
				c.d.lib.SetGPUBufferName(c.addr(0), c.addr(1), c.str(2))
				return nil, nil
			},
		},
		{
			Name:       "CreateGPUTexture",
			Params:     device(param("info", gpuTextureInfoSchema)),
			Result:     marshal.Handle(resource.KindGPUTexture),
			Convention: native.ConvNull,
			invoke: func(c *call) (any, error) {
				var info native.GPUTextureCreateInfo
				if err := c.into(1, gpuTextureInfoSchema, &info); err != nil {
					return nil, err
				}
				return created(c.d.mgr.CreateGPUTexture(c.handle(0), info))
			},
		},
		release("ReleaseGPUTexture", resource.KindGPUTexture),
		{
			Name:       "CreateGPUTransferBuffer",
			Params:     device(param("info", gpuTransferInfoSchema)),
			Result:     marshal.Handle(resource.KindGPUTransferBuffer),
			Convention: native.ConvNull,
			invoke: func(c *call) (any, error) {
				var info native.GPUTransferBufferCreateInfo
				if err := c.into(1, gpuTransferInfoSchema, &info); err != nil {
					return nil, err
				}
				return created(c.d.mgr.CreateGPUTransferBuffer(c.handle(0), info))
			},
		},
		release("ReleaseGPUTransferBuffer", resource.KindGPUTransferBuffer),
		{
			Name:       "AcquireGPUCommandBuffer",
			Params:     device(),
			Result:     marshal.Handle(resource.KindGPUCommandBuffer),
			Convention: native.ConvNull,
			invoke: func(c *call) (any, error) {
				return created(c.d.mgr.AcquireCommandBuffer(c.handle(0)))
			},
		},
		{
			Name:       "SubmitGPUCommandBuffer",
			Params:     []Param{own("command-buffer", resource.KindGPUCommandBuffer)},
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return nil, c.d.mgr.SubmitCommandBuffer(c.handle(0))
			},
		},
		{
			Name:       "CancelGPUCommandBuffer",
			Params:     []Param{own("command-buffer", resource.KindGPUCommandBuffer)},
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return nil, c.d.mgr.CancelCommandBuffer(c.handle(0))
			},
		},
	}
	for _, e := range entries {
		e.Family = FamilyGPU
		e.Affine = true
	}
	return entries
}
