package marshal

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/marshal/internal/abi"
	"github.com/wippyai/sdl-bridge/resource"
)

// Decode converts a caller-supplied value into the native Go value the
// schema describes:
//
//	bool                      bool
//	u8 u16 u32 u64            uint8 uint16 uint32 uint64
//	s8 s16 s32 s64            int8 int16 int32 int64
//	f32 f64                   float32 float64
//	char                      rune
//	string                    string (valid UTF-8, no NUL)
//	list<u8>                  []byte (copied)
//	list<T>                   []any
//	record                    map[string]any
//	option<T>                 nil or T
//	enum                      uint32 case index
//	flags                     uint64 bitmask
//	own<R>, borrow<R>         resource.Handle
//
// Integers are never truncated; a value outside the target width fails
// with a shape mismatch.
func Decode(value any, schema wit.Type) (any, error) {
	return decode(value, schema, nil)
}

func decode(value any, schema wit.Type, path []string) (any, error) {
	switch s := schema.(type) {
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

	case wit.F32:
		f, ok := abi.CoerceFloat32(value)
		if !ok {
			return nil, mismatch(path, value, schema, "expected finite f32, got %s", describe(value))
		}
		return f, nil
	case wit.F64:
		f, ok := abi.CoerceFloat(value)
		if !ok {
			return nil, mismatch(path, value, schema, "expected finite f64, got %s", describe(value))
		}
		return f, nil

	case wit.Char:
		return decodeChar(value, schema, path)
	case wit.String:
		return decodeString(value, schema, path)

	case *wit.TypeDef:
		if s == nil {
			return nil, mismatch(path, value, schema, "nil schema")
		}
		return decodeTypeDef(value, s, path)
	}
	return nil, mismatch(path, value, schema, "unsupported schema %T", schema)
}

func decodeUnsigned(value any, schema wit.Type, path []string, bits int) (uint64, error) {
	u, ok := abi.CoerceUnsigned(value, bits)
	if !ok {
		return 0, mismatch(path, value, schema, "expected integer in [0, %d], got %s", uint64(1)<<bits-1, describe(value))
	}
	return u, nil
}

func decodeSigned(value any, schema wit.Type, path []string, bits int) (int64, error) {
	i, ok := abi.CoerceSigned(value, bits)
	if !ok {
		lo, hi := -(int64(1) << (bits - 1)), int64(1)<<(bits-1)-1
		return 0, mismatch(path, value, schema, "expected integer in [%d, %d], got %s", lo, hi, describe(value))
	}
	return i, nil
}

func decodeChar(value any, schema wit.Type, path []string) (any, error) {
	switch v := value.(type) {
	case string:
		r, size := utf8.DecodeRuneInString(v)
		if r == utf8.RuneError && size <= 1 {
			if size == 0 {
				return nil, mismatch(path, value, schema, "expected one character, got empty string")
			}
			return nil, errors.InvalidUTF8(clonePath(path), []byte(v))
		}
		if size != len(v) {
			return nil, mismatch(path, value, schema, "expected one character, got %d bytes", len(v))
		}
		return r, nil
	case rune:
		if !utf8.ValidRune(v) {
			return nil, mismatch(path, value, schema, "invalid code point %#x", v)
		}
		return v, nil
	}
	return nil, mismatch(path, value, schema, "expected char, got %s", abi.TypeName(value))
}

func decodeString(value any, schema wit.Type, path []string) (any, error) {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return nil, mismatch(path, value, schema, "expected string, got %s", abi.TypeName(value))
	}
	if len(s) > abi.MaxStringSize {
		return nil, mismatch(path, len(s), schema, "string length %d exceeds %d", len(s), abi.MaxStringSize)
	}
	if !utf8.ValidString(s) {
		return nil, errors.InvalidUTF8(clonePath(path), []byte(s))
	}
	// C strings end at the first NUL; anything after it would be dropped.
	if i := strings.IndexByte(s, 0); i >= 0 {
		return nil, mismatch(path, value, schema, "string contains NUL at byte %d", i)
	}
	return s, nil
}

func decodeTypeDef(value any, td *wit.TypeDef, path []string) (any, error) {
	switch k := td.Kind.(type) {
	case *wit.Record:
		return decodeRecord(value, k, td, path)
	case *wit.List:
		if _, ok := k.Type.(wit.U8); ok {
			return decodeBytes(value, td, path)
		}
		return decodeList(value, k, td, path)
	case *wit.Option:
		if isNil(value) {
			return nil, nil
		}
		return decode(value, k.Type, path)
	case *wit.Enum:
		return decodeEnum(value, k, td, path)
	case *wit.Flags:
		return decodeFlags(value, k, td, path)
	case *wit.Own, *wit.Borrow:
		return decodeHandle(value, td, path)
	}
	if t, ok := td.Kind.(wit.Type); ok {
		return decode(value, t, path)
	}
	return nil, mismatch(path, value, td, "unsupported type definition %T", td.Kind)
}

func decodeRecord(value any, rec *wit.Record, schema wit.Type, path []string) (any, error) {
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
		d, err := decode(v, f.Type, fieldPath)
		if err != nil {
			return nil, err
		}
		out[f.Name] = d
	}

	for name := range fields {
		if !hasField(rec, name) {
			return nil, mismatch(appendPath(path, name), fields[name], schema, "unknown field %q", name)
		}
	}
	return out, nil
}

// recordValues normalizes a record value to a map keyed by WIT field name.
// Maps may use WIT names or camelCase; structs are matched with findGoField.
func recordValues(value any, rec *wit.Record, schema wit.Type, path []string) (map[string]any, error) {
	if m, ok := value.(map[string]any); ok {
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fieldKey(rec, k)] = v
		}
		return out, nil
	}

	rv := reflect.ValueOf(value)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, mismatch(path, value, schema, "expected record, got nil")
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, mismatch(path, value, schema, "expected record, got nil")
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fieldKey(rec, iter.Key().String())] = iter.Value().Interface()
		}
		return out, nil
	case reflect.Struct:
		out := make(map[string]any, len(rec.Fields))
		for _, f := range rec.Fields {
			sf, ok := findGoField(rv.Type(), f.Name)
			if !ok {
				continue
			}
			out[f.Name] = rv.FieldByIndex(sf.Index).Interface()
		}
		return out, nil
	}
	return nil, mismatch(path, value, schema, "expected record, got %s", abi.TypeName(value))
}

func fieldKey(rec *wit.Record, key string) string {
	if hasField(rec, key) {
		return key
	}
	if kebab := toKebabCase(key); hasField(rec, kebab) {
		return kebab
	}
	return key
}

func hasField(rec *wit.Record, name string) bool {
	for _, f := range rec.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func decodeBytes(value any, schema wit.Type, path []string) (any, error) {
	switch v := value.(type) {
	case []byte:
		if len(v) > abi.MaxBytesSize {
			return nil, mismatch(path, len(v), schema, "buffer length %d exceeds %d", len(v), abi.MaxBytesSize)
		}
		return abi.CloneBytes(v), nil
	case []any:
		if len(v) > abi.MaxBytesSize {
			return nil, mismatch(path, len(v), schema, "buffer length %d exceeds %d", len(v), abi.MaxBytesSize)
		}
		out := make([]byte, len(v))
		for i, e := range v {
			b, ok := abi.CoerceUnsigned(e, 8)
			if !ok {
				return nil, mismatch(appendIndex(path, i), e, wit.U8{}, "expected byte, got %s", describe(e))
			}
			out[i] = byte(b)
		}
		return out, nil
	}
	return nil, mismatch(path, value, schema, "expected bytes, got %s", abi.TypeName(value))
}

func decodeList(value any, l *wit.List, schema wit.Type, path []string) (any, error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, mismatch(path, value, schema, "expected list, got %s", abi.TypeName(value))
	}
	if rv.Len() > abi.MaxListLength {
		return nil, mismatch(path, rv.Len(), schema, "list length %d exceeds %d", rv.Len(), abi.MaxListLength)
	}
	out := make([]any, rv.Len())
	for i := range out {
		d, err := decode(rv.Index(i).Interface(), l.Type, appendIndex(path, i))
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func decodeEnum(value any, e *wit.Enum, schema wit.Type, path []string) (any, error) {
	if name, ok := value.(string); ok {
		for i, c := range e.Cases {
			if c.Name == name {
				return uint32(i), nil
			}
		}
		return nil, mismatch(path, value, schema, "unknown case %q", name)
	}
	idx, ok := abi.CoerceUnsigned(value, 32)
	if !ok || idx >= uint64(len(e.Cases)) {
		return nil, mismatch(path, value, schema, "case index %s out of range [0, %d)", describe(value), len(e.Cases))
	}
	return uint32(idx), nil
}

func decodeFlags(value any, f *wit.Flags, schema wit.Type, path []string) (any, error) {
	if len(f.Flags) > 64 {
		return nil, mismatch(path, value, schema, "more than 64 flags")
	}
	valid := uint64(1)<<len(f.Flags) - 1
	if len(f.Flags) == 64 {
		valid = ^uint64(0)
	}

	var names []string
	switch v := value.(type) {
	case []string:
		names = v
	case []any:
		names = make([]string, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, mismatch(appendIndex(path, i), e, schema, "expected flag name, got %s", abi.TypeName(e))
			}
			names[i] = s
		}
	default:
		mask, ok := abi.CoerceUnsigned(value, 64)
		if !ok {
			return nil, mismatch(path, value, schema, "expected flag list or mask, got %s", describe(value))
		}
		if mask&^valid != 0 {
			return nil, mismatch(path, value, schema, "unknown flag bits %#x", mask&^valid)
		}
		return mask, nil
	}

	var mask uint64
	for _, n := range names {
		bit := -1
		for i, fl := range f.Flags {
			if fl.Name == n {
				bit = i
				break
			}
		}
		if bit < 0 {
			return nil, mismatch(path, n, schema, "unknown flag %q", n)
		}
		mask |= 1 << bit
	}
	return mask, nil
}

func decodeHandle(value any, schema wit.Type, path []string) (any, error) {
	if h, ok := value.(resource.Handle); ok {
		return h, nil
	}
	u, ok := abi.CoerceUnsigned(value, 64)
	if !ok {
		return nil, mismatch(path, value, schema, "expected handle, got %s", describe(value))
	}
	return resource.Handle(u), nil
}
