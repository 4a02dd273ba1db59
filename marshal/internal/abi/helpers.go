package abi

import "reflect"

const (
	MaxStringSize = 1 << 24 // 16 MB
	MaxBytesSize  = 1 << 28 // 256 MB, one audio/GPU upload
	MaxListLength = 1 << 20
)

// TypeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func TypeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}

// CloneBytes returns a copy of b that shares no memory with it.
func CloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
