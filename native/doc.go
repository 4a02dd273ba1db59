// Package native describes the SDL3 C API as the bridge consumes it.
//
// The Library interface mirrors the C functions one to one and keeps their
// raw failure signals: a false bool, a zero Address (NULL), a negative
// integer, or a zero device ID. Callers never interpret these directly; they
// pass the raw result through Check together with the function's
// Convention, which reads the thread-local error string immediately after
// the failing call:
//
//	win := lib.CreateWindow("demo", 640, 480, 0)
//	if err := native.Check(lib, "CreateWindow", native.ConvNull, win); err != nil {
//	    return err // *errors.Error with Kind KindNative and SDL's message
//	}
//
// Two implementations exist: native/sim, a pure Go simulation used by tests
// and headless runs, and native/sdl3, a cgo binding built with the sdl3 tag.
//
// # Memory
//
// Slices handed to Library methods are only read for the duration of the
// call. Slices returned by Library methods are owned by the caller. Audio
// callbacks receive slices that alias native memory and must copy before
// returning.
package native
