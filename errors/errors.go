package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseArgument  Phase = "argument"  // caller argument validation
	PhaseMarshal   Phase = "marshal"   // value conversion
	PhaseHandle    Phase = "handle"    // handle registry
	PhaseLifecycle Phase = "lifecycle" // resource creation/destruction
	PhaseNative    Phase = "native"    // native library call
	PhaseEvent     Phase = "event"     // event translation
	PhaseDispatch  Phase = "dispatch"  // function table
	PhaseHost      Phase = "host"      // wasm guest boundary
)

// Kind categorizes the error
type Kind string

const (
	KindArgument             Kind = "argument"
	KindInvalidHandle        Kind = "invalid_handle"
	KindDuplicateAddress     Kind = "duplicate_address"
	KindNative               Kind = "native"
	KindEncoding             Kind = "encoding"
	KindShapeMismatch        Kind = "shape_mismatch"
	KindThreadAffinity       Kind = "thread_affinity"
	KindUnsupportedEventKind Kind = "unsupported_event_kind"
	KindNotFound             Kind = "not_found"
	KindNotInitialized       Kind = "not_initialized"
	KindExhausted            Kind = "exhausted"
	KindClosed               Kind = "closed"
)

// Sentinels for errors.Is matching by kind.
var (
	ErrArgument             = &Error{Kind: KindArgument, Param: noParam}
	ErrInvalidHandle        = &Error{Kind: KindInvalidHandle, Param: noParam}
	ErrDuplicateAddress     = &Error{Kind: KindDuplicateAddress, Param: noParam}
	ErrNative               = &Error{Kind: KindNative, Param: noParam}
	ErrEncoding             = &Error{Kind: KindEncoding, Param: noParam}
	ErrShapeMismatch        = &Error{Kind: KindShapeMismatch, Param: noParam}
	ErrThreadAffinity       = &Error{Kind: KindThreadAffinity, Param: noParam}
	ErrUnsupportedEventKind = &Error{Kind: KindUnsupportedEventKind, Param: noParam}
	ErrNotFound             = &Error{Kind: KindNotFound, Param: noParam}
	ErrNotInitialized       = &Error{Kind: KindNotInitialized, Param: noParam}
	ErrExhausted            = &Error{Kind: KindExhausted, Param: noParam}
	ErrClosed               = &Error{Kind: KindClosed, Param: noParam}
)

const noParam = -1

// Error is the structured error type used throughout the bridge
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Function string
	Type     string
	Detail   string
	Path     []string
	Param    int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Function != "" {
		b.WriteString(" in ")
		b.WriteString(e.Function)
	}

	if e.Param >= 0 {
		b.WriteString(" param ")
		b.WriteString(strconv.Itoa(e.Param))
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// Kind must match; Phase must match only when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Message returns the detail text without phase or kind decoration.
func (e *Error) Message() string {
	return e.Detail
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
			Param: noParam,
		},
	}
}

// Function sets the name of the bridged function
func (b *Builder) Function(name string) *Builder {
	b.err.Function = name
	return b
}

// Param sets the zero-based index of the offending argument
func (b *Builder) Param(index int) *Builder {
	b.err.Param = index
	return b
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the expected schema type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Argument creates an argument error for the parameter at index
func Argument(function string, index int, cause error, detail string, args ...any) *Error {
	return New(PhaseArgument, KindArgument).
		Function(function).
		Param(index).
		Cause(cause).
		Detail(detail, args...).
		Build()
}

// ShapeMismatch creates a marshalling shape error
func ShapeMismatch(path []string, value any, schema string, detail string, args ...any) *Error {
	return New(PhaseMarshal, KindShapeMismatch).
		Path(path...).
		Type(schema).
		Value(value).
		Detail(detail, args...).
		Build()
}

// InvalidUTF8 creates an encoding error for a string that is not valid UTF-8
func InvalidUTF8(path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseMarshal,
		Kind:   KindEncoding,
		Path:   path,
		Param:  noParam,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidHandle creates an error for a stale, retired, unknown or mistyped handle
func InvalidHandle(handle uint64, detail string) *Error {
	return &Error{
		Phase:  PhaseHandle,
		Kind:   KindInvalidHandle,
		Param:  noParam,
		Value:  handle,
		Detail: fmt.Sprintf("handle %#x: %s", handle, detail),
	}
}

// DuplicateAddress creates an error for a native address registered twice
func DuplicateAddress(kind string, addr uintptr) *Error {
	return &Error{
		Phase:  PhaseHandle,
		Kind:   KindDuplicateAddress,
		Param:  noParam,
		Value:  addr,
		Detail: fmt.Sprintf("%s at %#x is already registered", kind, addr),
	}
}

// Native creates an error carrying the native library's last-error message
func Native(function, message string) *Error {
	if message == "" {
		message = "native call failed without a message"
	}
	return &Error{
		Phase:    PhaseNative,
		Kind:     KindNative,
		Function: function,
		Param:    noParam,
		Detail:   message,
	}
}

// ThreadAffinity creates an error for an affine call made off the owning thread
func ThreadAffinity(function string, owner, current int) *Error {
	return &Error{
		Phase:    PhaseDispatch,
		Kind:     KindThreadAffinity,
		Function: function,
		Param:    noParam,
		Detail:   fmt.Sprintf("called on thread %d, subsystem owned by thread %d", current, owner),
	}
}

// UnsupportedEventKind creates an error for an event variant with no native encoding
func UnsupportedEventKind(eventType uint32, name string) *Error {
	return &Error{
		Phase:  PhaseEvent,
		Kind:   KindUnsupportedEventKind,
		Param:  noParam,
		Value:  eventType,
		Detail: fmt.Sprintf("%s event (type %#x) cannot be pushed", name, eventType),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Param:  noParam,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// NotInitialized creates an error for a call whose subsystem is not initialized
func NotInitialized(function string, missing uint32) *Error {
	return &Error{
		Phase:    PhaseDispatch,
		Kind:     KindNotInitialized,
		Function: function,
		Param:    noParam,
		Value:    missing,
		Detail:   fmt.Sprintf("subsystem flags %#x not initialized", missing),
	}
}

// Closed creates an error for use after Close
func Closed(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Param:  noParam,
		Detail: fmt.Sprintf("%s closed", component),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Param:  noParam,
		Detail: detail,
		Cause:  cause,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}
