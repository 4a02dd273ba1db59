package wasmhost

import (
	"github.com/wippyai/sdl-bridge/errors"
)

// Status codes returned by call when the bridge reports an error. The
// error record itself is left pending for result.
const (
	CodeArgument             int32 = -1
	CodeInvalidHandle        int32 = -2
	CodeDuplicateAddress     int32 = -3
	CodeNative               int32 = -4
	CodeEncoding             int32 = -5
	CodeShapeMismatch        int32 = -6
	CodeThreadAffinity       int32 = -7
	CodeUnsupportedEventKind int32 = -8
	CodeNotFound             int32 = -9
	CodeNotInitialized       int32 = -10
	CodeExhausted            int32 = -11
	CodeClosed               int32 = -12

	// CodeMemory reports a pointer range outside guest memory. Nothing is
	// left pending.
	CodeMemory int32 = -13
	// CodeInternal covers errors without a bridge kind, such as a
	// cancelled context.
	CodeInternal int32 = -14
)

var kindCodes = map[errors.Kind]int32{
	errors.KindArgument:             CodeArgument,
	errors.KindInvalidHandle:        CodeInvalidHandle,
	errors.KindDuplicateAddress:     CodeDuplicateAddress,
	errors.KindNative:               CodeNative,
	errors.KindEncoding:             CodeEncoding,
	errors.KindShapeMismatch:        CodeShapeMismatch,
	errors.KindThreadAffinity:       CodeThreadAffinity,
	errors.KindUnsupportedEventKind: CodeUnsupportedEventKind,
	errors.KindNotFound:             CodeNotFound,
	errors.KindNotInitialized:       CodeNotInitialized,
	errors.KindExhausted:            CodeExhausted,
	errors.KindClosed:               CodeClosed,
}

// Code maps err to the status a guest sees.
func Code(err error) int32 {
	if c, ok := kindCodes[errors.KindOf(err)]; ok {
		return c
	}
	return CodeInternal
}
