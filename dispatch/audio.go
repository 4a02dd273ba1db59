package dispatch

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/marshal"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

func audioEntries() []*Entry {
	device := func(extra ...Param) []Param {
		return append([]Param{borrow("device", resource.KindAudioDevice)}, extra...)
	}
	stream := func(extra ...Param) []Param {
		return append([]Param{borrow("stream", resource.KindAudioStream)}, extra...)
	}

	entries := []*Entry{
		{
			Name:   "GetNumAudioDrivers",
			Result: wit.S32{},
			invoke: func(c *call) (any, error) {
				return c.d.lib.GetNumAudioDrivers(), nil
			},
		},
		{
			Name:       "GetAudioDriver",
			Params:     []Param{param("index", wit.S32{})},
			Result:     wit.String{},
			Convention: native.ConvNull,
			invoke: func(c *call) (any, error) {
				return c.text(c.d.lib.GetAudioDriver(c.s32(0)))
			},
		},
		{
			Name:       "GetCurrentAudioDriver",
			Result:     wit.String{},
			Convention: native.ConvNull,
			invoke: func(c *call) (any, error) {
				return c.text(c.d.lib.GetCurrentAudioDriver())
			},
		},
		{
			Name:       "GetAudioPlaybackDevices",
			Result:     idListSchema,
			Convention: native.ConvNull,
			Requires:   native.InitAudio,
			invoke: func(c *call) (any, error) {
				return c.ids(c.d.lib.GetAudioPlaybackDevices())
			},
		},
		{
			Name:       "GetAudioRecordingDevices",
			Result:     idListSchema,
			Convention: native.ConvNull,
			Requires:   native.InitAudio,
			invoke: func(c *call) (any, error) {
				return c.ids(c.d.lib.GetAudioRecordingDevices())
			},
		},
		{
			Name:       "GetAudioDeviceName",
			Params:     []Param{param("device-id", wit.U32{})},
			Result:     wit.String{},
			Convention: native.ConvNull,
			invoke: func(c *call) (any, error) {
				return c.text(c.d.lib.GetAudioDeviceName(c.u32(0)))
			},
		},
		{
			Name:       "GetAudioDeviceFormat",
			Params:     []Param{param("device-id", wit.U32{})},
			Result:     deviceFormatSchema,
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				spec, frames, ok := c.d.lib.GetAudioDeviceFormat(c.u32(0))
				return c.value(deviceFormat{Spec: spec, SampleFrames: frames}, ok)
			},
		},
		{
			Name:       "OpenAudioDevice",
			Params:     []Param{param("device-id", wit.U32{}), audioSpecParam("spec")},
			Result:     marshal.Handle(resource.KindAudioDevice),
			Convention: native.ConvZeroID,
			Requires:   native.InitAudio,
			invoke: func(c *call) (any, error) {
				spec, err := c.spec(1)
				if err != nil {
					return nil, err
				}
				return created(c.d.mgr.OpenAudioDevice(c.u32(0), spec))
			},
		},
		{
			Name:   "CloseAudioDevice",
			Params: []Param{own("device", resource.KindAudioDevice)},
			invoke: func(c *call) (any, error) {
				return nil, c.d.mgr.CloseAudioDevice(c.handle(0))
			},
		},
		{
			Name:       "PauseAudioDevice",
			Params:     device(),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.PauseAudioDevice(c.deviceID(0)))
			},
		},
		{
			Name:       "ResumeAudioDevice",
			Params:     device(),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.ResumeAudioDevice(c.deviceID(0)))
			},
		},
		{
			Name:   "AudioDevicePaused",
			Params: device(),
			Result: wit.Bool{},
			invoke: func(c *call) (any, error) {
				return c.d.lib.AudioDevicePaused(c.deviceID(0)), nil
			},
		},
		{
			Name:       "GetAudioDeviceGain",
			Params:     device(),
			Result:     wit.F32{},
			Convention: native.ConvNegative,
			invoke: func(c *call) (any, error) {
				g := c.d.lib.GetAudioDeviceGain(c.deviceID(0))
				return c.value(g, g)
			},
		},
		{
			Name:       "SetAudioDeviceGain",
			Params:     device(param("gain", wit.F32{})),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.SetAudioDeviceGain(c.deviceID(0), c.f32(1)))
			},
		},
		{
			Name:       "CreateAudioStream",
			Params:     []Param{audioSpecParam("src"), audioSpecParam("dst")},
			Result:     marshal.Handle(resource.KindAudioStream),
			Convention: native.ConvNull,
			invoke: func(c *call) (any, error) {
				src, err := c.spec(0)
				if err != nil {
					return nil, err
				}
				dst, err := c.spec(1)
				if err != nil {
					return nil, err
				}
				return created(c.d.mgr.CreateAudioStream(src, dst))
			},
		},
		{
			Name:   "DestroyAudioStream",
			Params: []Param{own("stream", resource.KindAudioStream)},
			invoke: func(c *call) (any, error) {
				return nil, c.d.mgr.DestroyAudioStream(c.handle(0))
			},
		},
		{
			Name:       "GetAudioStreamFormat",
			Params:     stream(),
			Result:     streamFormatSchema,
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				src, dst, ok := c.d.lib.GetAudioStreamFormat(c.addr(0))
				return c.value(streamFormat{Src: src, Dst: dst}, ok)
			},
		},
		{
			Name:       "SetAudioStreamFormat",
			Params:     stream(audioSpecParam("src"), audioSpecParam("dst")),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				src, err := c.spec(1)
				if err != nil {
					return nil, err
				}
				dst, err := c.spec(2)
				if err != nil {
					return nil, err
				}
				return c.done(c.d.lib.SetAudioStreamFormat(c.addr(0), src, dst))
			},
		},
		{
			Name:       "GetAudioStreamGain",
			Params:     stream(),
			Result:     wit.F32{},
			Convention: native.ConvNegative,
			invoke: func(c *call) (any, error) {
				g := c.d.lib.GetAudioStreamGain(c.addr(0))
				return c.value(g, g)
			},
		},
		{
			Name:       "SetAudioStreamGain",
			Params:     stream(param("gain", wit.F32{})),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.SetAudioStreamGain(c.addr(0), c.f32(1)))
			},
		},
		{
			Name:       "GetAudioStreamFrequencyRatio",
			Params:     stream(),
			Result:     wit.F32{},
			Convention: native.ConvZeroID,
			invoke: func(c *call) (any, error) {
				r := c.d.lib.GetAudioStreamFrequencyRatio(c.addr(0))
				return c.value(r, r)
			},
		},
		{
			Name:       "SetAudioStreamFrequencyRatio",
			Params:     stream(param("ratio", wit.F32{})),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.SetAudioStreamFrequencyRatio(c.addr(0), c.f32(1)))
			},
		},
		{
			Name: "BindAudioStream",
			Params: []Param{
				borrow("device", resource.KindAudioDevice),
				borrow("stream", resource.KindAudioStream),
			},
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return nil, c.d.mgr.BindStream(c.handle(0), c.handle(1))
			},
		},
		{
			Name:   "UnbindAudioStream",
			Params: stream(),
			invoke: func(c *call) (any, error) {
				return nil, c.d.mgr.UnbindStream(c.handle(0))
			},
		},
		{
			Name:   "GetAudioStreamDevice",
			Params: stream(),
			Result: marshal.Option(marshal.Borrow(resource.KindAudioDevice)),
			invoke: func(c *call) (any, error) {
				h, err := c.d.mgr.StreamDevice(c.handle(0))
				if err != nil || h == 0 {
					return nil, err
				}
				return h, nil
			},
		},
		{
			Name:       "PutAudioStreamData",
			Params:     stream(param("data", marshal.Bytes())),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.PutAudioStreamData(c.addr(0), c.bytes(1)))
			},
		},
		{
			Name:       "GetAudioStreamData",
			Params:     stream(param("len", wit.S32{})),
			Result:     marshal.Bytes(),
			Convention: native.ConvNegative,
			invoke: func(c *call) (any, error) {
				size := c.s32(1)
				if size < 0 {
					return nil, errors.Argument(c.e.Name, 1, nil, "negative length %d", size)
				}
				if size > marshal.MaxBytes {
					return nil, errors.Argument(c.e.Name, 1, nil, "length %d exceeds %d", size, marshal.MaxBytes)
				}
				buf := make([]byte, size)
				n := c.d.lib.GetAudioStreamData(c.addr(0), buf)
				if err := c.check(n); err != nil {
					return nil, err
				}
				return buf[:n], nil
			},
		},
		{
			Name:       "GetAudioStreamAvailable",
			Params:     stream(),
			Result:     wit.S32{},
			Convention: native.ConvNegative,
			invoke: func(c *call) (any, error) {
				n := c.d.lib.GetAudioStreamAvailable(c.addr(0))
				return c.value(n, n)
			},
		},
		{
			Name:       "GetAudioStreamQueued",
			Params:     stream(),
			Result:     wit.S32{},
			Convention: native.ConvNegative,
			invoke: func(c *call) (any, error) {
				n := c.d.lib.GetAudioStreamQueued(c.addr(0))
				return c.value(n, n)
			},
		},
		{
			Name:       "FlushAudioStream",
			Params:     stream(),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.FlushAudioStream(c.addr(0)))
			},
		},
		{
			Name:       "ClearAudioStream",
			Params:     stream(),
			Convention: native.ConvBool,
			invoke: func(c *call) (any, error) {
				return c.done(c.d.lib.ClearAudioStream(c.addr(0)))
			},
		},
	}
	for _, e := range entries {
		e.Family = FamilyAudio
	}
	return entries
}
