package abi

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
)

// CoerceToUint64 converts value to uint64 if it is a non-negative integer.
// Floats must be finite and integral.
func CoerceToUint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint:
		return uint64(v), true
	case int8:
		if v >= 0 {
			return uint64(v), true
		}
	case int16:
		if v >= 0 {
			return uint64(v), true
		}
	case int32:
		if v >= 0 {
			return uint64(v), true
		}
	case int:
		if v >= 0 {
			return uint64(v), true
		}
	case int64:
		if v >= 0 {
			return uint64(v), true
		}
	case float64:
		// 2^64 itself is representable and must be rejected.
		if v >= 0 && v < 1<<64 && v == math.Trunc(v) {
			return uint64(v), true
		}
	case float32:
		f := float64(v)
		if f >= 0 && f < 1<<64 && f == math.Trunc(f) {
			return uint64(f), true
		}
	case json.Number:
		if u, err := strconv.ParseUint(string(v), 10, 64); err == nil {
			return u, true
		}
		if f, err := v.Float64(); err == nil {
			return CoerceToUint64(f)
		}
	default:
		return coerceReflectUint(value)
	}
	return 0, false
}

// CoerceToInt64 converts value to int64 if it is an integer in range.
func CoerceToInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), true
		}
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		if v >= -(1<<63) && v < 1<<63 && v == math.Trunc(v) {
			return int64(v), true
		}
	case float32:
		f := float64(v)
		if f >= -(1<<63) && f < 1<<63 && f == math.Trunc(f) {
			return int64(f), true
		}
	case json.Number:
		if i, err := strconv.ParseInt(string(v), 10, 64); err == nil {
			return i, true
		}
		if f, err := v.Float64(); err == nil {
			return CoerceToInt64(f)
		}
	default:
		return coerceReflectInt(value)
	}
	return 0, false
}

// CoerceUnsigned converts value to an unsigned integer of the given width.
func CoerceUnsigned(value any, bits int) (uint64, bool) {
	u, ok := CoerceToUint64(value)
	if !ok {
		return 0, false
	}
	if bits < 64 && u > 1<<bits-1 {
		return 0, false
	}
	return u, true
}

// CoerceSigned converts value to a signed integer of the given width.
func CoerceSigned(value any, bits int) (int64, bool) {
	i, ok := CoerceToInt64(value)
	if !ok {
		return 0, false
	}
	if bits < 64 {
		lo, hi := -(int64(1) << (bits - 1)), int64(1)<<(bits-1)-1
		if i < lo || i > hi {
			return 0, false
		}
	}
	return i, true
}

// CoerceFloat converts value to a finite float64.
func CoerceFloat(value any) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case json.Number:
		var err error
		if f, err = v.Float64(); err != nil {
			return 0, false
		}
	default:
		if i, ok := CoerceToInt64(value); ok {
			f = float64(i)
		} else if u, ok := CoerceToUint64(value); ok {
			f = float64(u)
		} else {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CoerceFloat32 converts value to a finite float32 within range.
func CoerceFloat32(value any) (float32, bool) {
	f, ok := CoerceFloat(value)
	if !ok || f > math.MaxFloat32 || f < -math.MaxFloat32 {
		return 0, false
	}
	return float32(f), true
}

func coerceReflectUint(value any) (uint64, bool) {
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i := rv.Int(); i >= 0 {
			return uint64(i), true
		}
	}
	return 0, false
}

func coerceReflectInt(value any) (int64, bool) {
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u), true
		}
	}
	return 0, false
}
