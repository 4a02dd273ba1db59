package dispatch

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sdl-bridge/marshal"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

var (
	sizeSchema = marshal.Named("size", marshal.Record(
		marshal.Field("w", wit.S32{}),
		marshal.Field("h", wit.S32{}),
	))
	pointSchema = marshal.Named("point", marshal.Record(
		marshal.Field("x", wit.S32{}),
		marshal.Field("y", wit.S32{}),
	))
	deviceFormatSchema = marshal.Named("device-format", marshal.Record(
		marshal.Field("spec", marshal.AudioSpecSchema),
		marshal.Field("sample-frames", wit.S32{}),
	))
	streamFormatSchema = marshal.Named("stream-format", marshal.Record(
		marshal.Field("src", marshal.AudioSpecSchema),
		marshal.Field("dst", marshal.AudioSpecSchema),
	))
	idListSchema = marshal.List(wit.U32{})

	gpuBufferInfoSchema = marshal.Named("gpu-buffer-create-info", marshal.Record(
		marshal.Field("usage", wit.U32{}),
		marshal.Field("size", wit.U32{}),
	))
	gpuTextureInfoSchema = marshal.Named("gpu-texture-create-info", marshal.Record(
		marshal.Field("type", wit.U32{}),
		marshal.Field("format", wit.U32{}),
		marshal.Field("usage", wit.U32{}),
		marshal.Field("width", wit.U32{}),
		marshal.Field("height", wit.U32{}),
		marshal.Field("layer-count-or-depth", wit.U32{}),
		marshal.Field("num-levels", wit.U32{}),
	))
	gpuTransferInfoSchema = marshal.Named("gpu-transfer-buffer-create-info", marshal.Record(
		marshal.Field("usage", wit.U32{}),
		marshal.Field("size", wit.U32{}),
	))
)

type size struct {
	W int32 `wit:"w"`
	H int32 `wit:"h"`
}

type point struct {
	X int32 `wit:"x"`
	Y int32 `wit:"y"`
}

type deviceFormat struct {
	Spec         native.AudioSpec `wit:"spec"`
	SampleFrames int32            `wit:"sample-frames"`
}

type streamFormat struct {
	Src native.AudioSpec `wit:"src"`
	Dst native.AudioSpec `wit:"dst"`
}

func borrow(name string, kind resource.Kind) Param {
	return param(name, marshal.Borrow(kind))
}

func own(name string, kind resource.Kind) Param {
	return param(name, marshal.Handle(kind))
}
