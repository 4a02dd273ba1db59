package marshal

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

func TestDecodePrimitives(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		schema wit.Type
		want   any
	}{
		{"bool", true, wit.Bool{}, true},
		{"u8 from float64", float64(255), wit.U8{}, uint8(255)},
		{"u32 from int", 640, wit.U32{}, uint32(640)},
		{"u64 from json number", json.Number("18446744073709551615"), wit.U64{}, uint64(math.MaxUint64)},
		{"s16 negative", float64(-32768), wit.S16{}, int16(-32768)},
		{"s32 from uint8", uint8(7), wit.S32{}, int32(7)},
		{"f32", 0.5, wit.F32{}, float32(0.5)},
		{"f64 from int", 3, wit.F64{}, float64(3)},
		{"char", "é", wit.Char{}, 'é'},
		{"string", "Hello", wit.String{}, "Hello"},
		{"string from bytes", []byte("abc"), wit.String{}, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.value, tt.schema)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeRejectsWithoutTruncating(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		schema wit.Type
	}{
		{"negative for u32", float64(-1), wit.U32{}},
		{"u32 overflow", float64(1 << 32), wit.U32{}},
		{"u8 overflow", 256, wit.U8{}},
		{"fractional for integer", 2.5, wit.S32{}},
		{"NaN for integer", math.NaN(), wit.U32{}},
		{"Inf for float", math.Inf(-1), wit.F32{}},
		{"f32 overflow", math.MaxFloat64, wit.F32{}},
		{"string for integer", "12", wit.U32{}},
		{"number for bool", 1, wit.Bool{}},
		{"number for string", 12, wit.String{}},
		{"two chars", "ab", wit.Char{}},
		{"embedded NUL", "a\x00b", wit.String{}},
		{"nil for u32", nil, wit.U32{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.value, tt.schema)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrShapeMismatch), "got %v", err)
		})
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	_, err := Decode("ok\xff\xfe", wit.String{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEncoding))
	assert.Equal(t, errors.KindEncoding, errors.KindOf(err))
}

func TestDecodeRecord(t *testing.T) {
	schema := Record(
		Field("sample-rate", wit.S32{}),
		Field("label", Option(wit.String{})),
	)

	got, err := Decode(map[string]any{"sampleRate": float64(48000)}, schema)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"sample-rate": int32(48000), "label": nil}, got)

	_, err = Decode(map[string]any{"label": "x"}, schema)
	require.Error(t, err)
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, []string{"sample-rate"}, e.Path)
	assert.Contains(t, e.Detail, "missing field")

	_, err = Decode(map[string]any{"sample-rate": 1, "bogus": 2}, schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")

	_, err = Decode([]any{1}, schema)
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))
}

func TestDecodeNestedPath(t *testing.T) {
	schema := Record(Field("rect", FRectSchema))
	_, err := Decode(map[string]any{
		"rect": map[string]any{"x": 0, "y": 0, "w": "wide", "h": 1},
	}, schema)
	require.Error(t, err)

	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, []string{"rect", "w"}, e.Path)
	assert.Equal(t, "f32", e.Type)
}

func TestBytesAreCopied(t *testing.T) {
	src := []byte{1, 2, 3, 4}

	got, err := Decode(src, Bytes())
	require.NoError(t, err)
	b := got.([]byte)
	b[0] = 99
	assert.Equal(t, byte(1), src[0], "decoded buffer aliases input")

	out, err := Encode(src, Bytes())
	require.NoError(t, err)
	out.([]byte)[1] = 99
	assert.Equal(t, byte(2), src[1], "encoded buffer aliases input")

	got, err = Decode([]any{float64(1), float64(255)}, Bytes())
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 255}, got)

	_, err = Decode([]any{float64(256)}, Bytes())
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))
}

func TestEnumAndFlags(t *testing.T) {
	enum := Enum("playback", "recording")
	v, err := Decode("recording", enum)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v)

	_, err = Decode(float64(2), enum)
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))

	name, err := Encode(uint32(0), enum)
	require.NoError(t, err)
	assert.Equal(t, "playback", name)

	flags := Flags("fullscreen", "opengl", "hidden")
	mask, err := Decode([]any{"hidden", "fullscreen"}, flags)
	require.NoError(t, err)
	assert.Equal(t, uint64(0b101), mask)

	_, err = Decode(float64(0b1000), flags)
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))

	names, err := Encode(uint64(0b011), flags)
	require.NoError(t, err)
	assert.Equal(t, []string{"fullscreen", "opengl"}, names)
}

func TestHandles(t *testing.T) {
	schema := Borrow(resource.KindRenderer)
	kind, ok := HandleKind(schema)
	require.True(t, ok)
	assert.Equal(t, resource.KindRenderer, kind)
	assert.Equal(t, "borrow<renderer>", TypeString(schema))

	v, err := Decode(float64(1<<40+5), schema)
	require.NoError(t, err)
	assert.Equal(t, resource.Handle(1<<40+5), v)

	out, err := Encode(resource.Handle(42), Handle(resource.KindWindow))
	require.NoError(t, err)
	assert.Equal(t, uint64(42), out)

	_, err = Decode(-1, schema)
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))

	_, ok = HandleKind(wit.U32{})
	assert.False(t, ok)
}

func TestAudioSpecRoundTrip(t *testing.T) {
	formats := []uint32{
		native.AudioU8, native.AudioS8, native.AudioS16LE, native.AudioS16BE,
		native.AudioS32LE, native.AudioS32BE, native.AudioF32LE, native.AudioF32BE,
	}
	freqs := []int32{MinFreq, 8000, 22050, 44100, 48000, 96000, MaxFreq}

	for _, f := range formats {
		for c := int32(MinChannels); c <= MaxChannels; c++ {
			for _, r := range freqs {
				spec := native.AudioSpec{Format: f, Channels: c, Freq: r}
				encoded, err := EncodeAudioSpec(spec)
				require.NoError(t, err)

				// Simulate a JSON caller: every number becomes float64.
				raw, err := json.Marshal(encoded)
				require.NoError(t, err)
				var host map[string]any
				require.NoError(t, json.Unmarshal(raw, &host))

				decoded, err := DecodeAudioSpec(host)
				require.NoError(t, err)
				assert.Equal(t, spec, decoded)
			}
		}
	}
}

func TestAudioSpecOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		value map[string]any
		path  string
	}{
		{"zero channels", map[string]any{"format": native.AudioS16, "channels": 0, "freq": 44100}, "channels"},
		{"nine channels", map[string]any{"format": native.AudioS16, "channels": 9, "freq": 44100}, "channels"},
		{"zero freq", map[string]any{"format": native.AudioS16, "channels": 2, "freq": 0}, "freq"},
		{"huge freq", map[string]any{"format": native.AudioS16, "channels": 2, "freq": 768001}, "freq"},
		{"unknown format", map[string]any{"format": 0x1234, "channels": 2, "freq": 44100}, "format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAudioSpec(tt.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrShapeMismatch))

			var e *errors.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, []string{tt.path}, e.Path)
		})
	}
}

func TestDecodeIntoOverflow(t *testing.T) {
	var narrow struct {
		Value uint8 `wit:"value"`
	}
	schema := Record(Field("value", wit.U32{}))

	require.NoError(t, DecodeInto(map[string]any{"value": 200}, schema, &narrow))
	assert.Equal(t, uint8(200), narrow.Value)

	err := DecodeInto(map[string]any{"value": 300}, schema, &narrow)
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))

	err = DecodeInto(map[string]any{"value": 1}, schema, narrow)
	assert.True(t, errors.Is(err, errors.ErrArgument))
}

func TestEncodeStructRecord(t *testing.T) {
	out, err := Encode(native.Color{R: 1, G: 2, B: 3, A: 255}, ColorSchema)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"r": uint8(1), "g": uint8(2), "b": uint8(3), "a": uint8(255)}, out)

	_, err = Encode(float32(math.NaN()), wit.F32{})
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))

	_, err = Encode("bad\xff", wit.String{})
	assert.True(t, errors.Is(err, errors.ErrEncoding))
}

func TestToKebabCase(t *testing.T) {
	tests := map[string]string{
		"sampleRate":        "sample-rate",
		"Channels":          "channels",
		"GPUDevice":         "gpu-device",
		"LayerCountOrDepth": "layer-count-or-depth",
		"windowID":          "window-id",
	}
	for in, want := range tests {
		assert.Equal(t, want, toKebabCase(in), in)
	}
}
