// Package marshal converts between caller-supplied values and the native Go
// values passed to the SDL layer, driven by WIT type schemas.
//
// Callers hold loosely typed values: float64 and json.Number from JSON,
// maps for structs, byte slices for buffers. Each bridged function declares
// a schema per parameter and Decode checks the value against it:
//
//	v, err := marshal.Decode(float64(44100), wit.S32{})   // int32(44100)
//	_, err = marshal.Decode(float64(-1), wit.U32{})       // shape mismatch
//	_, err = marshal.Decode(1.5, wit.U8{})                // shape mismatch
//
// Records decode into map[string]any, or into a struct with DecodeInto:
//
//	var spec native.AudioSpec
//	err := marshal.DecodeInto(map[string]any{
//	    "format": 0x8010, "channels": 2, "freq": 44100,
//	}, marshal.AudioSpecSchema, &spec)
//
// Encode is the inverse and produces JSON-friendly values.
//
// # Failure Kinds
//
// Shape problems (wrong type, missing or unknown field, integer out of the
// target width, non-finite number) fail with errors.KindShapeMismatch.
// Strings that are not valid UTF-8 fail with errors.KindEncoding. Values are
// never truncated or rounded to fit.
//
// # Buffers
//
// list<u8> values are copied on the way in and on the way out, so no buffer
// is ever shared between the caller and native code.
package marshal
