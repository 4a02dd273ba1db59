package native

import "encoding/binary"

// Address is an opaque native pointer or device ID. It is never handed to
// bridge callers; the resource registry maps it to a handle.
type Address uintptr

// RawEventSize is sizeof(SDL_Event).
const RawEventSize = 128

// RawEvent is the native SDL_Event union as bytes in host byte order
// (little-endian on every supported platform).
type RawEvent [RawEventSize]byte

// Type returns the union discriminator.
func (e *RawEvent) Type() uint32 {
	return binary.LittleEndian.Uint32(e[0:])
}

// Timestamp returns the common timestamp field in nanoseconds.
func (e *RawEvent) Timestamp() uint64 {
	return binary.LittleEndian.Uint64(e[8:])
}

// AudioSpec mirrors SDL_AudioSpec.
type AudioSpec struct {
	Format   uint32 `wit:"format"`
	Channels int32  `wit:"channels"`
	Freq     int32  `wit:"freq"`
}

// FrameSize returns bytes per sample frame, or 0 for an unknown format.
func (s AudioSpec) FrameSize() int {
	return AudioBitSize(s.Format) / 8 * int(s.Channels)
}

// FRect mirrors SDL_FRect.
type FRect struct {
	X float32 `wit:"x"`
	Y float32 `wit:"y"`
	W float32 `wit:"w"`
	H float32 `wit:"h"`
}

// Color mirrors SDL_Color.
type Color struct {
	R uint8 `wit:"r"`
	G uint8 `wit:"g"`
	B uint8 `wit:"b"`
	A uint8 `wit:"a"`
}

// GPUBufferCreateInfo mirrors SDL_GPUBufferCreateInfo without the props field.
type GPUBufferCreateInfo struct {
	Usage uint32 `wit:"usage"`
	Size  uint32 `wit:"size"`
}

// GPUTextureCreateInfo mirrors the commonly used fields of SDL_GPUTextureCreateInfo.
type GPUTextureCreateInfo struct {
	Type              uint32 `wit:"type"`
	Format            uint32 `wit:"format"`
	Usage             uint32 `wit:"usage"`
	Width             uint32 `wit:"width"`
	Height            uint32 `wit:"height"`
	LayerCountOrDepth uint32 `wit:"layer-count-or-depth"`
	NumLevels         uint32 `wit:"num-levels"`
}

// GPUTransferBufferCreateInfo mirrors SDL_GPUTransferBufferCreateInfo.
type GPUTransferBufferCreateInfo struct {
	Usage uint32 `wit:"usage"`
	Size  uint32 `wit:"size"`
}

// PostmixCallback receives mixed float samples on the native audio thread.
// samples aliases native memory and is only valid during the call.
type PostmixCallback func(spec AudioSpec, samples []float32)

// StreamCallback is invoked on the native audio thread when a stream is
// drained (get callback) or fed (put callback).
type StreamCallback func(stream Address, additional, total int32)

// Core is the process-wide part of the API.
type Core interface {
	Init(flags uint32) bool
	Quit()
	WasInit(flags uint32) uint32
	GetError() string
	ClearError() bool
	GetVersion() int32
	GetPlatform() string
	GetTicks() uint64
}

// Video covers windows, renderers and the clipboard.
type Video interface {
	GetNumVideoDrivers() int32
	GetVideoDriver(index int32) (string, bool)
	GetCurrentVideoDriver() (string, bool)

	CreateWindow(title string, w, h int32, flags uint64) Address
	DestroyWindow(win Address)
	GetWindowID(win Address) uint32
	GetWindowFromID(id uint32) Address
	SetWindowTitle(win Address, title string) bool
	GetWindowTitle(win Address) string
	SetWindowSize(win Address, w, h int32) bool
	GetWindowSize(win Address) (w, h int32, ok bool)
	SetWindowPosition(win Address, x, y int32) bool
	GetWindowPosition(win Address) (x, y int32, ok bool)
	GetWindowFlags(win Address) uint64
	ShowWindow(win Address) bool
	HideWindow(win Address) bool

	CreateRenderer(win Address, name string) Address
	DestroyRenderer(r Address)
	GetRendererName(r Address) (string, bool)
	SetRenderDrawColor(r Address, c Color) bool
	GetRenderDrawColor(r Address) (Color, bool)
	RenderClear(r Address) bool
	RenderFillRect(r Address, rect *FRect) bool
	RenderRect(r Address, rect *FRect) bool
	RenderLine(r Address, x1, y1, x2, y2 float32) bool
	RenderPoint(r Address, x, y float32) bool
	RenderPresent(r Address) bool

	SetClipboardText(text string) bool
	GetClipboardText() string
	HasClipboardText() bool
}

// Audio covers drivers, devices and streams.
type Audio interface {
	GetNumAudioDrivers() int32
	GetAudioDriver(index int32) (string, bool)
	GetCurrentAudioDriver() (string, bool)
	GetAudioPlaybackDevices() ([]uint32, bool)
	GetAudioRecordingDevices() ([]uint32, bool)
	GetAudioDeviceName(dev uint32) (string, bool)
	GetAudioDeviceFormat(dev uint32) (spec AudioSpec, sampleFrames int32, ok bool)

	OpenAudioDevice(dev uint32, spec *AudioSpec) uint32
	CloseAudioDevice(dev uint32)
	PauseAudioDevice(dev uint32) bool
	ResumeAudioDevice(dev uint32) bool
	AudioDevicePaused(dev uint32) bool
	GetAudioDeviceGain(dev uint32) float32
	SetAudioDeviceGain(dev uint32, gain float32) bool
	SetAudioPostmixCallback(dev uint32, cb PostmixCallback) bool

	CreateAudioStream(src, dst *AudioSpec) Address
	DestroyAudioStream(s Address)
	GetAudioStreamFormat(s Address) (src, dst AudioSpec, ok bool)
	SetAudioStreamFormat(s Address, src, dst *AudioSpec) bool
	GetAudioStreamGain(s Address) float32
	SetAudioStreamGain(s Address, gain float32) bool
	GetAudioStreamFrequencyRatio(s Address) float32
	SetAudioStreamFrequencyRatio(s Address, ratio float32) bool
	BindAudioStream(dev uint32, s Address) bool
	UnbindAudioStream(s Address)
	GetAudioStreamDevice(s Address) uint32
	PutAudioStreamData(s Address, data []byte) bool
	GetAudioStreamData(s Address, buf []byte) int32
	GetAudioStreamAvailable(s Address) int32
	GetAudioStreamQueued(s Address) int32
	FlushAudioStream(s Address) bool
	ClearAudioStream(s Address) bool
	SetAudioStreamGetCallback(s Address, cb StreamCallback) bool
}

// Events covers the event queue and keyboard state.
type Events interface {
	PumpEvents()
	PollEvent(ev *RawEvent) bool
	WaitEventTimeout(ev *RawEvent, timeoutMS int32) bool
	PushEvent(ev *RawEvent) bool
	HasEvent(eventType uint32) bool
	FlushEvents(minType, maxType uint32)
	GetModState() uint16
}

// Gamepad covers gamepad enumeration and state.
type Gamepad interface {
	GetGamepads() ([]uint32, bool)
	OpenGamepad(id uint32) Address
	CloseGamepad(g Address)
	GetGamepadID(g Address) uint32
	GetGamepadName(g Address) (string, bool)
	GetGamepadButton(g Address, button int32) bool
	GetGamepadAxis(g Address, axis int32) int16
}

// GPU covers devices and the GPU objects they own.
type GPU interface {
	GetNumGPUDrivers() int32
	GetGPUDriver(index int32) (string, bool)
	GPUSupportsShaderFormats(formats uint32, name string) bool

	CreateGPUDevice(formats uint32, debug bool, name string) Address
	DestroyGPUDevice(d Address)
	GetGPUDeviceDriver(d Address) (string, bool)
	GetGPUShaderFormats(d Address) uint32
	ClaimWindowForGPUDevice(d, win Address) bool
	ReleaseWindowFromGPUDevice(d, win Address)

	CreateGPUBuffer(d Address, info *GPUBufferCreateInfo) Address
	ReleaseGPUBuffer(d, b Address)
	SetGPUBufferName(d, b Address, name string)
	CreateGPUTexture(d Address, info *GPUTextureCreateInfo) Address
	ReleaseGPUTexture(d, t Address)
	CreateGPUTransferBuffer(d Address, info *GPUTransferBufferCreateInfo) Address
	ReleaseGPUTransferBuffer(d, t Address)
	AcquireGPUCommandBuffer(d Address) Address
	SubmitGPUCommandBuffer(cb Address) bool
	CancelGPUCommandBuffer(cb Address) bool
}

// Library is the complete native surface.
type Library interface {
	Core
	Video
	Audio
	Events
	Gamepad
	GPU
}
