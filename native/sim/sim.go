package sim

import (
	"sync"
	"time"

	"github.com/wippyai/sdl-bridge/affinity"
	"github.com/wippyai/sdl-bridge/native"
)

const (
	addrBase   = 0x10000
	addrStride = 0x100

	// maxQueuedEvents mirrors SDL_MAX_QUEUED_EVENTS.
	maxQueuedEvents = 65535

	version = 3_002_010
)

var _ native.Library = (*Library)(nil)

// Library is a simulated SDL3. The zero value is not usable; call New.
type Library struct {
	start time.Time

	errs      map[int]string
	failures  map[string]string
	calls     map[string]int
	freeAddrs []native.Address
	nextAddr  uintptr

	windows    map[native.Address]*window
	windowIDs  map[uint32]native.Address
	renderers  map[native.Address]*renderer
	devices    map[uint32]*audioDevice
	physical   []*physicalDevice
	streams    map[native.Address]*stream
	joysticks  map[uint32]*joystick
	gamepads   map[native.Address]uint32
	gpuDevices map[native.Address]*gpuDevice
	gpuObjects map[native.Address]*gpuObject

	queue  []native.RawEvent
	notify chan struct{}

	videoDrivers []string
	audioDrivers []string
	gpuDrivers   []string
	clipboard    string
	platform     string

	nextWindowID   uint32
	nextDeviceID   uint32
	nextJoystickID uint32
	initialized    uint32
	gpuFormats     uint32
	modState       uint16

	mu sync.Mutex
}

// New creates a simulated library with one video driver, two playback
// devices, one recording device and a Vulkan-like GPU driver.
func New() *Library {
	s := &Library{
		start:        time.Now(),
		errs:         make(map[int]string),
		failures:     make(map[string]string),
		calls:        make(map[string]int),
		nextAddr:     addrBase,
		windows:      make(map[native.Address]*window),
		windowIDs:    make(map[uint32]native.Address),
		renderers:    make(map[native.Address]*renderer),
		devices:      make(map[uint32]*audioDevice),
		streams:      make(map[native.Address]*stream),
		joysticks:    make(map[uint32]*joystick),
		gamepads:     make(map[native.Address]uint32),
		gpuDevices:   make(map[native.Address]*gpuDevice),
		gpuObjects:   make(map[native.Address]*gpuObject),
		notify:       make(chan struct{}, 1),
		videoDrivers: []string{"offscreen", "dummy"},
		audioDrivers: []string{"dummy", "disk"},
		gpuDrivers:   []string{"vulkan"},
		platform:     "Simulated",
		nextWindowID: 1,
		nextDeviceID: 2,
		gpuFormats:   native.GPUShaderFormatSPIRV | native.GPUShaderFormatPrivate,
	}
	defaultSpec := native.AudioSpec{Format: native.AudioF32, Channels: 2, Freq: 48000}
	s.physical = []*physicalDevice{
		{id: s.allocDeviceID(), name: "Simulated Speakers", spec: defaultSpec, frames: 1024},
		{id: s.allocDeviceID(), name: "Simulated Headphones", spec: defaultSpec, frames: 512},
		{id: s.allocDeviceID(), name: "Simulated Microphone", spec: native.AudioSpec{Format: native.AudioS16, Channels: 1, Freq: 44100}, frames: 512, recording: true},
	}
	s.nextJoystickID = 1
	return s
}

// FailNext makes the next call to function fail with message.
func (s *Library) FailNext(function, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[function] = message
}

// Calls returns how many times function has been called.
func (s *Library) Calls(function string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[function]
}

// TotalCalls returns the number of native calls made so far.
func (s *Library) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// Live returns the number of native objects currently allocated.
func (s *Library) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows) + len(s.renderers) + len(s.devices) + len(s.streams) +
		len(s.gamepads) + len(s.gpuDevices) + len(s.gpuObjects)
}

// SetModState sets the value GetModState reports.
func (s *Library) SetModState(mod uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modState = mod
}

// enter records a call and reports an injected failure. Must hold s.mu.
func (s *Library) enter(function string) bool {
	s.calls[function]++
	if msg, ok := s.failures[function]; ok {
		delete(s.failures, function)
		s.setError(msg)
		return false
	}
	return true
}

// setError stores the calling thread's error message. Must hold s.mu.
func (s *Library) setError(msg string) {
	s.errs[affinity.Current()] = msg
}

func (s *Library) fail(msg string) bool {
	s.setError(msg)
	return false
}

func (s *Library) failAddr(msg string) native.Address {
	s.setError(msg)
	return 0
}

// alloc returns a fresh address, reusing freed ones first. Must hold s.mu.
func (s *Library) alloc() native.Address {
	if n := len(s.freeAddrs); n > 0 {
		a := s.freeAddrs[n-1]
		s.freeAddrs = s.freeAddrs[:n-1]
		return a
	}
	a := native.Address(s.nextAddr)
	s.nextAddr += addrStride
	return a
}

func (s *Library) release(a native.Address) {
	s.freeAddrs = append(s.freeAddrs, a)
}

func (s *Library) allocDeviceID() uint32 {
	id := s.nextDeviceID
	s.nextDeviceID++
	return id
}

func (s *Library) requires(flags uint32, subsystem string) bool {
	if s.initialized&flags != flags {
		return s.fail(subsystem + " subsystem has not been initialized")
	}
	return true
}

func (s *Library) Init(flags uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("Init") {
		return false
	}
	s.initialized |= native.ExpandInitFlags(flags)
	return true
}

func (s *Library) Quit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("Quit")
	s.initialized = 0
	s.queue = nil
}

func (s *Library) WasInit(flags uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("WasInit")
	if flags == 0 {
		return s.initialized
	}
	return s.initialized & flags
}

func (s *Library) GetError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["GetError"]++
	return s.errs[affinity.Current()]
}

func (s *Library) ClearError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["ClearError"]++
	delete(s.errs, affinity.Current())
	return true
}

func (s *Library) GetVersion() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("GetVersion")
	return version
}

func (s *Library) GetPlatform() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("GetPlatform")
	return s.platform
}

func (s *Library) GetTicks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("GetTicks")
	return uint64(time.Since(s.start).Milliseconds())
}

func driverAt(drivers []string, index int32) (string, bool) {
	if index < 0 || int(index) >= len(drivers) {
		return "", false
	}
	return drivers[index], true
}
