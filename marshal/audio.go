package marshal

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sdl-bridge/native"
)

// Documented audio spec ranges.
const (
	MinChannels = 1
	MaxChannels = 8
	MinFreq     = 1
	MaxFreq     = 768000
)

// AudioSpecSchema is record { format: u32, channels: s32, freq: s32 }.
var AudioSpecSchema = Named("audio-spec", Record(
	Field("format", wit.U32{}),
	Field("channels", wit.S32{}),
	Field("freq", wit.S32{}),
))

// ColorSchema is record { r: u8, g: u8, b: u8, a: u8 }.
var ColorSchema = Named("color", Record(
	Field("r", wit.U8{}),
	Field("g", wit.U8{}),
	Field("b", wit.U8{}),
	Field("a", wit.U8{}),
))

// FRectSchema is record { x: f32, y: f32, w: f32, h: f32 }.
var FRectSchema = Named("frect", Record(
	Field("x", wit.F32{}),
	Field("y", wit.F32{}),
	Field("w", wit.F32{}),
	Field("h", wit.F32{}),
))

// DecodeAudioSpec decodes and range-checks an audio spec. A format SDL does
// not define, a channel count outside [1, 8] or a rate outside [1, 768000]
// fails with a shape mismatch.
func DecodeAudioSpec(value any) (native.AudioSpec, error) {
	var spec native.AudioSpec
	if err := DecodeInto(value, AudioSpecSchema, &spec); err != nil {
		return native.AudioSpec{}, err
	}
	if err := ValidateAudioSpec(spec); err != nil {
		return native.AudioSpec{}, err
	}
	return spec, nil
}

// ValidateAudioSpec checks an already decoded spec against the documented
// ranges.
func ValidateAudioSpec(spec native.AudioSpec) error {
	if native.AudioBitSize(spec.Format) == 0 {
		return mismatch([]string{"format"}, spec.Format, wit.U32{}, "unknown audio format %#x", spec.Format)
	}
	if spec.Channels < MinChannels || spec.Channels > MaxChannels {
		return mismatch([]string{"channels"}, spec.Channels, wit.S32{}, "channel count %d outside [%d, %d]", spec.Channels, MinChannels, MaxChannels)
	}
	if spec.Freq < MinFreq || spec.Freq > MaxFreq {
		return mismatch([]string{"freq"}, spec.Freq, wit.S32{}, "sample rate %d outside [%d, %d]", spec.Freq, MinFreq, MaxFreq)
	}
	return nil
}

// EncodeAudioSpec encodes a spec as a record value.
func EncodeAudioSpec(spec native.AudioSpec) (map[string]any, error) {
	v, err := Encode(spec, AudioSpecSchema)
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}
