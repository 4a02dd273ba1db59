//go:build sdl3 && cgo

package sdl3

/*
#cgo pkg-config: sdl3
#include <stdlib.h>
#include <SDL3/SDL.h>

extern void sdlbridgePostmix(void *userdata, SDL_AudioSpec *spec, float *buffer, int buflen);
extern void sdlbridgeStreamGet(void *userdata, SDL_AudioStream *stream, int additional, int total);
*/
import "C"

import (
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/wippyai/sdl-bridge/native"
)

// SDL_Event must match native.RawEvent exactly.
var (
	_ [native.RawEventSize - C.sizeof_SDL_Event]byte
	_ [C.sizeof_SDL_Event - native.RawEventSize]byte
)

var _ native.Library = (*Library)(nil)

// Library calls straight into SDL3. Addresses are raw C pointers and device
// IDs; callers must not dereference them.
type Library struct {
	postmix map[uint32]cgo.Handle
	streams map[native.Address]cgo.Handle
	mu      sync.Mutex
}

// Available reports whether the SDL3 binding is compiled in.
func Available() bool { return true }

// Open returns the SDL3 binding. SDL itself is not initialized until Init.
func Open() (native.Library, error) {
	return &Library{
		postmix: make(map[uint32]cgo.Handle),
		streams: make(map[native.Address]cgo.Handle),
	}, nil
}

func ptr(a native.Address) unsafe.Pointer {
	return unsafe.Pointer(uintptr(a)) //nolint:govet
}

func addr[T any](p *T) native.Address {
	return native.Address(uintptr(unsafe.Pointer(p)))
}

func window(a native.Address) *C.SDL_Window       { return (*C.SDL_Window)(ptr(a)) }
func renderer(a native.Address) *C.SDL_Renderer   { return (*C.SDL_Renderer)(ptr(a)) }
func stream(a native.Address) *C.SDL_AudioStream  { return (*C.SDL_AudioStream)(ptr(a)) }
func gamepad(a native.Address) *C.SDL_Gamepad     { return (*C.SDL_Gamepad)(ptr(a)) }
func gpuDevice(a native.Address) *C.SDL_GPUDevice { return (*C.SDL_GPUDevice)(ptr(a)) }

// goString converts a nullable C string.
func goString(s *C.char) (string, bool) {
	if s == nil {
		return "", false
	}
	return C.GoString(s), true
}

// cString returns a C copy of s and its free function. An empty s maps to
// NULL when nullable is set.
func cString(s string, nullable bool) (*C.char, func()) {
	if nullable && s == "" {
		return nil, func() {}
	}
	cs := C.CString(s)
	return cs, func() { C.free(unsafe.Pointer(cs)) }
}

func cSpec(s *native.AudioSpec) *C.SDL_AudioSpec {
	if s == nil {
		return nil
	}
	return &C.SDL_AudioSpec{
		format:   C.SDL_AudioFormat(s.Format),
		channels: C.int(s.Channels),
		freq:     C.int(s.Freq),
	}
}

func goSpec(s *C.SDL_AudioSpec) native.AudioSpec {
	return native.AudioSpec{Format: uint32(s.format), Channels: int32(s.channels), Freq: int32(s.freq)}
}

func cRect(r *native.FRect) *C.SDL_FRect {
	if r == nil {
		return nil
	}
	return &C.SDL_FRect{x: C.float(r.X), y: C.float(r.Y), w: C.float(r.W), h: C.float(r.H)}
}

// idList copies and frees an SDL-allocated ID array.
func idList(p *C.Uint32, n C.int) ([]uint32, bool) {
	if p == nil {
		return nil, false
	}
	defer C.SDL_free(unsafe.Pointer(p))
	src := unsafe.Slice((*uint32)(unsafe.Pointer(p)), int(n))
	return append([]uint32(nil), src...), true
}

// Core

func (l *Library) Init(flags uint32) bool     { return bool(C.SDL_Init(C.SDL_InitFlags(flags))) }
func (l *Library) Quit()                      { C.SDL_Quit() }
func (l *Library) WasInit(flags uint32) uint32 { return uint32(C.SDL_WasInit(C.SDL_InitFlags(flags))) }
func (l *Library) GetError() string           { return C.GoString(C.SDL_GetError()) }
func (l *Library) ClearError() bool           { return bool(C.SDL_ClearError()) }
func (l *Library) GetVersion() int32          { return int32(C.SDL_GetVersion()) }
func (l *Library) GetPlatform() string        { return C.GoString(C.SDL_GetPlatform()) }
func (l *Library) GetTicks() uint64           { return uint64(C.SDL_GetTicks()) }

// Video

func (l *Library) GetNumVideoDrivers() int32 { return int32(C.SDL_GetNumVideoDrivers()) }

func (l *Library) GetVideoDriver(index int32) (string, bool) {
	return goString(C.SDL_GetVideoDriver(C.int(index)))
}

func (l *Library) GetCurrentVideoDriver() (string, bool) {
	return goString(C.SDL_GetCurrentVideoDriver())
}

func (l *Library) CreateWindow(title string, w, h int32, flags uint64) native.Address {
	ct, free := cString(title, false)
	defer free()
	return addr(C.SDL_CreateWindow(ct, C.int(w), C.int(h), C.SDL_WindowFlags(flags)))
}

func (l *Library) DestroyWindow(win native.Address)        { C.SDL_DestroyWindow(window(win)) }
func (l *Library) GetWindowID(win native.Address) uint32   { return uint32(C.SDL_GetWindowID(window(win))) }
func (l *Library) GetWindowFlags(win native.Address) uint64 { return uint64(C.SDL_GetWindowFlags(window(win))) }
func (l *Library) ShowWindow(win native.Address) bool      { return bool(C.SDL_ShowWindow(window(win))) }
func (l *Library) HideWindow(win native.Address) bool      { return bool(C.SDL_HideWindow(window(win))) }

func (l *Library) GetWindowFromID(id uint32) native.Address {
	return addr(C.SDL_GetWindowFromID(C.SDL_WindowID(id)))
}

func (l *Library) SetWindowTitle(win native.Address, title string) bool {
	ct, free := cString(title, false)
	defer free()
	return bool(C.SDL_SetWindowTitle(window(win), ct))
}

func (l *Library) GetWindowTitle(win native.Address) string {
	return C.GoString(C.SDL_GetWindowTitle(window(win)))
}

func (l *Library) SetWindowSize(win native.Address, w, h int32) bool {
	return bool(C.SDL_SetWindowSize(window(win), C.int(w), C.int(h)))
}

func (l *Library) GetWindowSize(win native.Address) (int32, int32, bool) {
	var w, h C.int
	ok := C.SDL_GetWindowSize(window(win), &w, &h)
	return int32(w), int32(h), bool(ok)
}

func (l *Library) SetWindowPosition(win native.Address, x, y int32) bool {
	return bool(C.SDL_SetWindowPosition(window(win), C.int(x), C.int(y)))
}

func (l *Library) GetWindowPosition(win native.Address) (int32, int32, bool) {
	var x, y C.int
	ok := C.SDL_GetWindowPosition(window(win), &x, &y)
	return int32(x), int32(y), bool(ok)
}

func (l *Library) CreateRenderer(win native.Address, name string) native.Address {
	cn, free := cString(name, true)
	defer free()
	return addr(C.SDL_CreateRenderer(window(win), cn))
}

func (l *Library) DestroyRenderer(r native.Address) { C.SDL_DestroyRenderer(renderer(r)) }

func (l *Library) GetRendererName(r native.Address) (string, bool) {
	return goString(C.SDL_GetRendererName(renderer(r)))
}

func (l *Library) SetRenderDrawColor(r native.Address, c native.Color) bool {
	return bool(C.SDL_SetRenderDrawColor(renderer(r), C.Uint8(c.R), C.Uint8(c.G), C.Uint8(c.B), C.Uint8(c.A)))
}

func (l *Library) GetRenderDrawColor(r native.Address) (native.Color, bool) {
	var cr, cg, cb, ca C.Uint8
	ok := C.SDL_GetRenderDrawColor(renderer(r), &cr, &cg, &cb, &ca)
	return native.Color{R: uint8(cr), G: uint8(cg), B: uint8(cb), A: uint8(ca)}, bool(ok)
}

func (l *Library) RenderClear(r native.Address) bool   { return bool(C.SDL_RenderClear(renderer(r))) }
func (l *Library) RenderPresent(r native.Address) bool { return bool(C.SDL_RenderPresent(renderer(r))) }

func (l *Library) RenderFillRect(r native.Address, rect *native.FRect) bool {
	return bool(C.SDL_RenderFillRect(renderer(r), cRect(rect)))
}

func (l *Library) RenderRect(r native.Address, rect *native.FRect) bool {
	return bool(C.SDL_RenderRect(renderer(r), cRect(rect)))
}

func (l *Library) RenderLine(r native.Address, x1, y1, x2, y2 float32) bool {
	return bool(C.SDL_RenderLine(renderer(r), C.float(x1), C.float(y1), C.float(x2), C.float(y2)))
}

func (l *Library) RenderPoint(r native.Address, x, y float32) bool {
	return bool(C.SDL_RenderPoint(renderer(r), C.float(x), C.float(y)))
}

func (l *Library) SetClipboardText(text string) bool {
	ct, free := cString(text, false)
	defer free()
	return bool(C.SDL_SetClipboardText(ct))
}

func (l *Library) GetClipboardText() string {
	p := C.SDL_GetClipboardText()
	if p == nil {
		return ""
	}
	defer C.SDL_free(unsafe.Pointer(p))
	return C.GoString(p)
}

func (l *Library) HasClipboardText() bool { return bool(C.SDL_HasClipboardText()) }

// Audio

func (l *Library) GetNumAudioDrivers() int32 { return int32(C.SDL_GetNumAudioDrivers()) }

func (l *Library) GetAudioDriver(index int32) (string, bool) {
	return goString(C.SDL_GetAudioDriver(C.int(index)))
}

func (l *Library) GetCurrentAudioDriver() (string, bool) {
	return goString(C.SDL_GetCurrentAudioDriver())
}

func (l *Library) GetAudioPlaybackDevices() ([]uint32, bool) {
	var n C.int
	p := C.SDL_GetAudioPlaybackDevices(&n)
	return idList((*C.Uint32)(unsafe.Pointer(p)), n)
}

func (l *Library) GetAudioRecordingDevices() ([]uint32, bool) {
	var n C.int
	p := C.SDL_GetAudioRecordingDevices(&n)
	return idList((*C.Uint32)(unsafe.Pointer(p)), n)
}

func (l *Library) GetAudioDeviceName(dev uint32) (string, bool) {
	return goString(C.SDL_GetAudioDeviceName(C.SDL_AudioDeviceID(dev)))
}

func (l *Library) GetAudioDeviceFormat(dev uint32) (native.AudioSpec, int32, bool) {
	var spec C.SDL_AudioSpec
	var frames C.int
	if !C.SDL_GetAudioDeviceFormat(C.SDL_AudioDeviceID(dev), &spec, &frames) {
		return native.AudioSpec{}, 0, false
	}
	return goSpec(&spec), int32(frames), true
}

func (l *Library) OpenAudioDevice(dev uint32, spec *native.AudioSpec) uint32 {
	return uint32(C.SDL_OpenAudioDevice(C.SDL_AudioDeviceID(dev), cSpec(spec)))
}

func (l *Library) CloseAudioDevice(dev uint32) {
	C.SDL_CloseAudioDevice(C.SDL_AudioDeviceID(dev))
	l.mu.Lock()
	if h, ok := l.postmix[dev]; ok {
		h.Delete()
		delete(l.postmix, dev)
	}
	l.mu.Unlock()
}

func (l *Library) PauseAudioDevice(dev uint32) bool {
	return bool(C.SDL_PauseAudioDevice(C.SDL_AudioDeviceID(dev)))
}

func (l *Library) ResumeAudioDevice(dev uint32) bool {
	return bool(C.SDL_ResumeAudioDevice(C.SDL_AudioDeviceID(dev)))
}

func (l *Library) AudioDevicePaused(dev uint32) bool {
	return bool(C.SDL_AudioDevicePaused(C.SDL_AudioDeviceID(dev)))
}

func (l *Library) GetAudioDeviceGain(dev uint32) float32 {
	return float32(C.SDL_GetAudioDeviceGain(C.SDL_AudioDeviceID(dev)))
}

func (l *Library) SetAudioDeviceGain(dev uint32, gain float32) bool {
	return bool(C.SDL_SetAudioDeviceGain(C.SDL_AudioDeviceID(dev), C.float(gain)))
}

func (l *Library) SetAudioPostmixCallback(dev uint32, cb native.PostmixCallback) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	var ok C.bool
	var h cgo.Handle
	if cb == nil {
		ok = C.SDL_SetAudioPostmixCallback(C.SDL_AudioDeviceID(dev), nil, nil)
	} else {
		h = cgo.NewHandle(cb)
		ok = C.SDL_SetAudioPostmixCallback(C.SDL_AudioDeviceID(dev),
			C.SDL_AudioPostmixCallback(C.sdlbridgePostmix), unsafe.Pointer(uintptr(h))) //nolint:govet
	}
	if !ok {
		if h != 0 {
			h.Delete()
		}
		return false
	}
	if old, exists := l.postmix[dev]; exists {
		old.Delete()
		delete(l.postmix, dev)
	}
	if h != 0 {
		l.postmix[dev] = h
	}
	return true
}

func (l *Library) CreateAudioStream(src, dst *native.AudioSpec) native.Address {
	return addr(C.SDL_CreateAudioStream(cSpec(src), cSpec(dst)))
}

func (l *Library) DestroyAudioStream(s native.Address) {
	C.SDL_DestroyAudioStream(stream(s))
	l.mu.Lock()
	if h, ok := l.streams[s]; ok {
		h.Delete()
		delete(l.streams, s)
	}
	l.mu.Unlock()
}

func (l *Library) GetAudioStreamFormat(s native.Address) (native.AudioSpec, native.AudioSpec, bool) {
	var src, dst C.SDL_AudioSpec
	if !C.SDL_GetAudioStreamFormat(stream(s), &src, &dst) {
		return native.AudioSpec{}, native.AudioSpec{}, false
	}
	return goSpec(&src), goSpec(&dst), true
}

func (l *Library) SetAudioStreamFormat(s native.Address, src, dst *native.AudioSpec) bool {
	return bool(C.SDL_SetAudioStreamFormat(stream(s), cSpec(src), cSpec(dst)))
}

func (l *Library) GetAudioStreamGain(s native.Address) float32 {
	return float32(C.SDL_GetAudioStreamGain(stream(s)))
}

func (l *Library) SetAudioStreamGain(s native.Address, gain float32) bool {
	return bool(C.SDL_SetAudioStreamGain(stream(s), C.float(gain)))
}

func (l *Library) GetAudioStreamFrequencyRatio(s native.Address) float32 {
	return float32(C.SDL_GetAudioStreamFrequencyRatio(stream(s)))
}

func (l *Library) SetAudioStreamFrequencyRatio(s native.Address, ratio float32) bool {
	return bool(C.SDL_SetAudioStreamFrequencyRatio(stream(s), C.float(ratio)))
}

func (l *Library) BindAudioStream(dev uint32, s native.Address) bool {
	return bool(C.SDL_BindAudioStream(C.SDL_AudioDeviceID(dev), stream(s)))
}

func (l *Library) UnbindAudioStream(s native.Address) { C.SDL_UnbindAudioStream(stream(s)) }

func (l *Library) GetAudioStreamDevice(s native.Address) uint32 {
	return uint32(C.SDL_GetAudioStreamDevice(stream(s)))
}

func (l *Library) PutAudioStreamData(s native.Address, data []byte) bool {
	if len(data) == 0 {
		return bool(C.SDL_PutAudioStreamData(stream(s), nil, 0))
	}
	return bool(C.SDL_PutAudioStreamData(stream(s), unsafe.Pointer(&data[0]), C.int(len(data))))
}

func (l *Library) GetAudioStreamData(s native.Address, buf []byte) int32 {
	if len(buf) == 0 {
		return 0
	}
	return int32(C.SDL_GetAudioStreamData(stream(s), unsafe.Pointer(&buf[0]), C.int(len(buf))))
}

func (l *Library) GetAudioStreamAvailable(s native.Address) int32 {
	return int32(C.SDL_GetAudioStreamAvailable(stream(s)))
}

func (l *Library) GetAudioStreamQueued(s native.Address) int32 {
	return int32(C.SDL_GetAudioStreamQueued(stream(s)))
}

func (l *Library) FlushAudioStream(s native.Address) bool {
	return bool(C.SDL_FlushAudioStream(stream(s)))
}

func (l *Library) ClearAudioStream(s native.Address) bool {
	return bool(C.SDL_ClearAudioStream(stream(s)))
}

func (l *Library) SetAudioStreamGetCallback(s native.Address, cb native.StreamCallback) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	var ok C.bool
	var h cgo.Handle
	if cb == nil {
		ok = C.SDL_SetAudioStreamGetCallback(stream(s), nil, nil)
	} else {
		h = cgo.NewHandle(cb)
		ok = C.SDL_SetAudioStreamGetCallback(stream(s),
			C.SDL_AudioStreamCallback(C.sdlbridgeStreamGet), unsafe.Pointer(uintptr(h))) //nolint:govet
	}
	if !ok {
		if h != 0 {
			h.Delete()
		}
		return false
	}
	if old, exists := l.streams[s]; exists {
		old.Delete()
		delete(l.streams, s)
	}
	if h != 0 {
		l.streams[s] = h
	}
	return true
}

// Events

func rawEvent(ev *native.RawEvent) *C.SDL_Event {
	if ev == nil {
		return nil
	}
	return (*C.SDL_Event)(unsafe.Pointer(&ev[0]))
}

func (l *Library) PumpEvents() { C.SDL_PumpEvents() }

func (l *Library) PollEvent(ev *native.RawEvent) bool { return bool(C.SDL_PollEvent(rawEvent(ev))) }

func (l *Library) WaitEventTimeout(ev *native.RawEvent, timeoutMS int32) bool {
	return bool(C.SDL_WaitEventTimeout(rawEvent(ev), C.Sint32(timeoutMS)))
}

func (l *Library) PushEvent(ev *native.RawEvent) bool { return bool(C.SDL_PushEvent(rawEvent(ev))) }

func (l *Library) HasEvent(eventType uint32) bool { return bool(C.SDL_HasEvent(C.Uint32(eventType))) }

func (l *Library) FlushEvents(minType, maxType uint32) {
	C.SDL_FlushEvents(C.Uint32(minType), C.Uint32(maxType))
}

func (l *Library) GetModState() uint16 { return uint16(C.SDL_GetModState()) }

// Gamepad

func (l *Library) GetGamepads() ([]uint32, bool) {
	var n C.int
	p := C.SDL_GetGamepads(&n)
	return idList((*C.Uint32)(unsafe.Pointer(p)), n)
}

func (l *Library) OpenGamepad(id uint32) native.Address {
	return addr(C.SDL_OpenGamepad(C.SDL_JoystickID(id)))
}

func (l *Library) CloseGamepad(g native.Address) { C.SDL_CloseGamepad(gamepad(g)) }

func (l *Library) GetGamepadID(g native.Address) uint32 {
	return uint32(C.SDL_GetGamepadID(gamepad(g)))
}

func (l *Library) GetGamepadName(g native.Address) (string, bool) {
	return goString(C.SDL_GetGamepadName(gamepad(g)))
}

func (l *Library) GetGamepadButton(g native.Address, button int32) bool {
	return bool(C.SDL_GetGamepadButton(gamepad(g), C.SDL_GamepadButton(button)))
}

func (l *Library) GetGamepadAxis(g native.Address, axis int32) int16 {
	return int16(C.SDL_GetGamepadAxis(gamepad(g), C.SDL_GamepadAxis(axis)))
}

// GPU

func (l *Library) GetNumGPUDrivers() int32 { return int32(C.SDL_GetNumGPUDrivers()) }

func (l *Library) GetGPUDriver(index int32) (string, bool) {
	return goString(C.SDL_GetGPUDriver(C.int(index)))
}

func (l *Library) GPUSupportsShaderFormats(formats uint32, name string) bool {
	cn, free := cString(name, true)
	defer free()
	return bool(C.SDL_GPUSupportsShaderFormats(C.SDL_GPUShaderFormat(formats), cn))
}

func (l *Library) CreateGPUDevice(formats uint32, debug bool, name string) native.Address {
	cn, free := cString(name, true)
	defer free()
	return addr(C.SDL_CreateGPUDevice(C.SDL_GPUShaderFormat(formats), C.bool(debug), cn))
}

func (l *Library) DestroyGPUDevice(d native.Address) { C.SDL_DestroyGPUDevice(gpuDevice(d)) }

func (l *Library) GetGPUDeviceDriver(d native.Address) (string, bool) {
	return goString(C.SDL_GetGPUDeviceDriver(gpuDevice(d)))
}

func (l *Library) GetGPUShaderFormats(d native.Address) uint32 {
	return uint32(C.SDL_GetGPUShaderFormats(gpuDevice(d)))
}

func (l *Library) ClaimWindowForGPUDevice(d, win native.Address) bool {
	return bool(C.SDL_ClaimWindowForGPUDevice(gpuDevice(d), window(win)))
}

func (l *Library) ReleaseWindowFromGPUDevice(d, win native.Address) {
	C.SDL_ReleaseWindowFromGPUDevice(gpuDevice(d), window(win))
}

func (l *Library) CreateGPUBuffer(d native.Address, info *native.GPUBufferCreateInfo) native.Address {
	ci := C.SDL_GPUBufferCreateInfo{usage: C.SDL_GPUBufferUsageFlags(info.Usage), size: C.Uint32(info.Size)}
	return addr(C.SDL_CreateGPUBuffer(gpuDevice(d), &ci))
}

func (l *Library) ReleaseGPUBuffer(d, b native.Address) {
	C.SDL_ReleaseGPUBuffer(gpuDevice(d), (*C.SDL_GPUBuffer)(ptr(b)))
}

func (l *Library) SetGPUBufferName(d, b native.Address, name string) {
	cn, free := cString(name, false)
	defer free()
	C.SDL_SetGPUBufferName(gpuDevice(d), (*C.SDL_GPUBuffer)(ptr(b)), cn)
}

func (l *Library) CreateGPUTexture(d native.Address, info *native.GPUTextureCreateInfo) native.Address {
	ci := C.SDL_GPUTextureCreateInfo{
		_type:                C.SDL_GPUTextureType(info.Type),
		format:               C.SDL_GPUTextureFormat(info.Format),
		usage:                C.SDL_GPUTextureUsageFlags(info.Usage),
		width:                C.Uint32(info.Width),
		height:               C.Uint32(info.Height),
		layer_count_or_depth: C.Uint32(info.LayerCountOrDepth),
		num_levels:           C.Uint32(info.NumLevels),
	}
	return addr(C.SDL_CreateGPUTexture(gpuDevice(d), &ci))
}

func (l *Library) ReleaseGPUTexture(d, t native.Address) {
	C.SDL_ReleaseGPUTexture(gpuDevice(d), (*C.SDL_GPUTexture)(ptr(t)))
}

func (l *Library) CreateGPUTransferBuffer(d native.Address, info *native.GPUTransferBufferCreateInfo) native.Address {
	ci := C.SDL_GPUTransferBufferCreateInfo{usage: C.SDL_GPUTransferBufferUsage(info.Usage), size: C.Uint32(info.Size)}
	return addr(C.SDL_CreateGPUTransferBuffer(gpuDevice(d), &ci))
}

func (l *Library) ReleaseGPUTransferBuffer(d, t native.Address) {
	C.SDL_ReleaseGPUTransferBuffer(gpuDevice(d), (*C.SDL_GPUTransferBuffer)(ptr(t)))
}

func (l *Library) AcquireGPUCommandBuffer(d native.Address) native.Address {
	return addr(C.SDL_AcquireGPUCommandBuffer(gpuDevice(d)))
}

func (l *Library) SubmitGPUCommandBuffer(cb native.Address) bool {
	return bool(C.SDL_SubmitGPUCommandBuffer((*C.SDL_GPUCommandBuffer)(ptr(cb))))
}

func (l *Library) CancelGPUCommandBuffer(cb native.Address) bool {
	return bool(C.SDL_CancelGPUCommandBuffer((*C.SDL_GPUCommandBuffer)(ptr(cb))))
}
