//go:build sdl3 && cgo

package sdl3

/*
#include <SDL3/SDL.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/wippyai/sdl-bridge/native"
)

// These run on SDL's audio thread.

//export sdlbridgePostmix
func sdlbridgePostmix(userdata unsafe.Pointer, spec *C.SDL_AudioSpec, buffer *C.float, buflen C.int) {
	cb, ok := cgo.Handle(uintptr(userdata)).Value().(native.PostmixCallback)
	if !ok || buffer == nil {
		return
	}
	samples := unsafe.Slice((*float32)(unsafe.Pointer(buffer)), int(buflen)/4)
	cb(goSpec(spec), samples)
}

//export sdlbridgeStreamGet
func sdlbridgeStreamGet(userdata unsafe.Pointer, s *C.SDL_AudioStream, additional, total C.int) {
	cb, ok := cgo.Handle(uintptr(userdata)).Value().(native.StreamCallback)
	if !ok {
		return
	}
	cb(addr(s), int32(additional), int32(total))
}
