package marshal

import (
	"math"
	"reflect"
	"unicode/utf8"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/marshal/internal/abi"
	"github.com/wippyai/sdl-bridge/resource"
)

// Encode converts a native Go value into the caller-facing value for
// schema. Records become map[string]any keyed by WIT field name, enums
// become case names, flags become lists of flag names, handles become
// uint64 and byte buffers are copied.
//
// Encode applies the same range checks as Decode, so a native value that
// does not fit its declared schema is reported rather than truncated.
func Encode(value any, schema wit.Type) (any, error) {
	return encode(value, schema, nil)
}

func encode(value any, schema wit.Type, path []string) (any, error) {
	switch s := schema.(type) {
	case nil:
		return nil, nil
	case wit.Bool:
		b, ok := value.(bool)
		if !ok {
			return nil, mismatch(path, value, schema, "expected bool, got %s", abi.TypeName(value))
		}
		return b, nil

	case wit.U8:
		u, err := decodeUnsigned(value, schema, path, 8)
		return uint8(u), err
	case wit.U16:
		u, err := decodeUnsigned(value, schema, path, 16)
		return uint16(u), err
	case wit.U32:
		u, err := decodeUnsigned(value, schema, path, 32)
		return uint32(u), err
	case wit.U64:
		return decodeUnsigned(value, schema, path, 64)
	case wit.S8:
		i, err := decodeSigned(value, schema, path, 8)
		return int8(i), err
	case wit.S16:
		i, err := decodeSigned(value, schema, path, 16)
		return int16(i), err
	case wit.S32:
		i, err := decodeSigned(value, schema, path, 32)
		return int32(i), err
	case wit.S64:
		return decodeSigned(value, schema, path, 64)

	case wit.F32, wit.F64:
		var f float64
		switch v := value.(type) {
		case float32:
			f = float64(v)
		case float64:
			f = v
		default:
			return nil, mismatch(path, value, schema, "expected float, got %s", abi.TypeName(value))
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, mismatch(path, value, schema, "non-finite float %v", f)
		}
		if _, ok := s.(wit.F32); ok {
			return float32(f), nil
		}
		return f, nil

	case wit.Char:
		r, ok := value.(rune)
		if !ok || !utf8.ValidRune(r) {
			return nil, mismatch(path, value, schema, "expected code point, got %s", describe(value))
		}
		return string(r), nil

	case wit.String:
		str, ok := value.(string)
		if !ok {
			return nil, mismatch(path, value, schema, "expected string, got %s", abi.TypeName(value))
		}
		if !utf8.ValidString(str) {
			return nil, errors.InvalidUTF8(clonePath(path), []byte(str))
		}
		return str, nil

	case *wit.TypeDef:
		if s == nil {
			return nil, nil
		}
		return encodeTypeDef(value, s, path)
	}
	return nil, mismatch(path, value, schema, "unsupported schema %T", schema)
}

func encodeTypeDef(value any, td *wit.TypeDef, path []string) (any, error) {
	switch k := td.Kind.(type) {
	case *wit.Record:
		return encodeRecord(value, k, td, path)
	case *wit.List:
		if _, ok := k.Type.(wit.U8); ok {
			b, ok := value.([]byte)
			if !ok {
				return nil, mismatch(path, value, td, "expected []byte, got %s", abi.TypeName(value))
			}
			return abi.CloneBytes(b), nil
		}
		return encodeList(value, k, td, path)
	case *wit.Option:
		if isNil(value) {
			return nil, nil
		}
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Pointer {
			value = rv.Elem().Interface()
		}
		return encode(value, k.Type, path)
	case *wit.Enum:
		idx, ok := abi.CoerceUnsigned(value, 32)
		if !ok || idx >= uint64(len(k.Cases)) {
			return nil, mismatch(path, value, td, "case index %s out of range [0, %d)", describe(value), len(k.Cases))
		}
		return k.Cases[idx].Name, nil
	case *wit.Flags:
		mask, ok := abi.CoerceUnsigned(value, 64)
		if !ok {
			return nil, mismatch(path, value, td, "expected flag mask, got %s", describe(value))
		}
		names := make([]string, 0, len(k.Flags))
		for i, f := range k.Flags {
			if i < 64 && mask&(1<<i) != 0 {
				names = append(names, f.Name)
				mask &^= 1 << i
			}
		}
		if mask != 0 {
			return nil, mismatch(path, value, td, "unknown flag bits %#x", mask)
		}
		return names, nil
	case *wit.Own, *wit.Borrow:
		switch h := value.(type) {
		case resource.Handle:
			return uint64(h), nil
		case uint64:
			return h, nil
		}
		return nil, mismatch(path, value, td, "expected handle, got %s", abi.TypeName(value))
	}
	if t, ok := td.Kind.(wit.Type); ok {
		return encode(value, t, path)
	}
	return nil, mismatch(path, value, td, "unsupported type definition %T", td.Kind)
}

func encodeRecord(value any, rec *wit.Record, schema wit.Type, path []string) (any, error) {
	fields, err := recordValues(value, rec, schema, path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(rec.Fields))
	for _, f := range rec.Fields {
		fieldPath := appendPath(path, f.Name)
		v, ok := fields[f.Name]
		if !ok {
			if isOption(f.Type) {
				out[f.Name] = nil
				continue
			}
			return nil, mismatch(fieldPath, nil, f.Type, "missing field %q", f.Name)
		}
		e, err := encode(v, f.Type, fieldPath)
		if err != nil {
			return nil, err
		}
		out[f.Name] = e
	}
	return out, nil
}

func encodeList(value any, l *wit.List, schema wit.Type, path []string) (any, error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, mismatch(path, value, schema, "expected list, got %s", abi.TypeName(value))
	}
	out := make([]any, rv.Len())
	for i := range out {
		e, err := encode(rv.Index(i).Interface(), l.Type, appendIndex(path, i))
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
