package native

import (
	"github.com/wippyai/sdl-bridge/errors"
)

// Convention is the way a native function signals failure.
type Convention uint8

const (
	// ConvNone marks functions that cannot fail.
	ConvNone Convention = iota
	// ConvBool marks functions returning false on failure.
	ConvBool
	// ConvNull marks functions returning NULL on failure. A nil result or a
	// zero Address is NULL.
	ConvNull
	// ConvNegative marks functions returning a negative number on failure.
	ConvNegative
	// ConvZeroID marks functions returning an ID of 0 on failure. A float
	// result of 0 (a frequency ratio) counts as well.
	ConvZeroID
)

var conventionNames = [...]string{"none", "bool", "null", "negative", "zero-id"}

func (c Convention) String() string {
	if int(c) < len(conventionNames) {
		return conventionNames[c]
	}
	return "unknown"
}

// Failed reports whether result is a failure signal under c.
func (c Convention) Failed(result any) bool {
	switch c {
	case ConvBool:
		b, ok := result.(bool)
		return ok && !b
	case ConvNull:
		switch v := result.(type) {
		case nil:
			return true
		case Address:
			return v == 0
		}
		return false
	case ConvNegative:
		switch v := result.(type) {
		case int:
			return v < 0
		case int8:
			return v < 0
		case int16:
			return v < 0
		case int32:
			return v < 0
		case int64:
			return v < 0
		case float32:
			return v < 0
		case float64:
			return v < 0
		}
		return false
	case ConvZeroID:
		switch v := result.(type) {
		case uint32:
			return v == 0
		case uint64:
			return v == 0
		case Address:
			return v == 0
		case float32:
			return v == 0
		}
		return false
	}
	return false
}

// ErrorSource exposes the thread-local last-error string.
type ErrorSource interface {
	GetError() string
}

// Check converts a raw result into a native error when it signals failure.
// It must be called on the same thread and before any other native call so
// the message read belongs to the failing function.
func Check(src ErrorSource, function string, conv Convention, result any) error {
	if !conv.Failed(result) {
		return nil
	}
	return errors.Native(function, src.GetError())
}
