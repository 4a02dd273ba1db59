package sim

import (
	"fmt"

	"github.com/wippyai/sdl-bridge/native"
)

type gpuObjectKind uint8

const (
	gpuBuffer gpuObjectKind = iota
	gpuTexture
	gpuTransferBuffer
	gpuCommandBuffer
)

type gpuDevice struct {
	driver  string
	claimed map[native.Address]bool
	formats uint32
	debug   bool
}

type gpuObject struct {
	name   string
	device native.Address
	size   uint32
	kind   gpuObjectKind
}

func (s *Library) GetNumGPUDrivers() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("GetNumGPUDrivers")
	return int32(len(s.gpuDrivers))
}

func (s *Library) GetGPUDriver(index int32) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetGPUDriver") {
		return "", false
	}
	name, ok := driverAt(s.gpuDrivers, index)
	if !ok {
		s.setError("Parameter 'index' is invalid")
	}
	return name, ok
}

// driverFor picks a GPU driver supporting formats. Must hold s.mu.
func (s *Library) driverFor(formats uint32, name string) (string, bool) {
	if formats&s.gpuFormats == 0 {
		return "", false
	}
	if name == "" {
		return s.gpuDrivers[0], true
	}
	for _, d := range s.gpuDrivers {
		if d == name {
			return d, true
		}
	}
	return "", false
}

func (s *Library) GPUSupportsShaderFormats(formats uint32, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("GPUSupportsShaderFormats")
	_, ok := s.driverFor(formats, name)
	return ok
}

func (s *Library) CreateGPUDevice(formats uint32, debug bool, name string) native.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("CreateGPUDevice") {
		return 0
	}
	driver, ok := s.driverFor(formats, name)
	if !ok {
		return s.failAddr("No supported SDL_GPU backend found!")
	}
	addr := s.alloc()
	s.gpuDevices[addr] = &gpuDevice{
		driver:  driver,
		formats: formats & s.gpuFormats,
		debug:   debug,
		claimed: make(map[native.Address]bool),
	}
	return addr
}

func (s *Library) DestroyGPUDevice(d native.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("DestroyGPUDevice")
	dev, ok := s.gpuDevices[d]
	if !ok {
		s.setError("Invalid GPU device")
		return
	}
	for win := range dev.claimed {
		if wd, ok := s.windows[win]; ok {
			wd.gpu = 0
		}
	}
	delete(s.gpuDevices, d)
	s.release(d)
}

func (s *Library) gpuDevice(d native.Address) (*gpuDevice, bool) {
	dev, ok := s.gpuDevices[d]
	if !ok {
		s.setError("Invalid GPU device")
	}
	return dev, ok
}

func (s *Library) GetGPUDeviceDriver(d native.Address) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetGPUDeviceDriver") {
		return "", false
	}
	dev, ok := s.gpuDevice(d)
	if !ok {
		return "", false
	}
	return dev.driver, true
}

func (s *Library) GetGPUShaderFormats(d native.Address) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("GetGPUShaderFormats")
	dev, ok := s.gpuDevice(d)
	if !ok {
		return 0
	}
	return dev.formats
}

func (s *Library) ClaimWindowForGPUDevice(d, win native.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("ClaimWindowForGPUDevice") {
		return false
	}
	dev, ok := s.gpuDevice(d)
	if !ok {
		return false
	}
	wd, ok := s.window(win)
	if !ok {
		return false
	}
	if wd.gpu != 0 {
		return s.fail("Window already claimed!")
	}
	wd.gpu = d
	dev.claimed[win] = true
	return true
}

func (s *Library) ReleaseWindowFromGPUDevice(d, win native.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("ReleaseWindowFromGPUDevice")
	dev, ok := s.gpuDevice(d)
	if !ok {
		return
	}
	if wd, ok := s.windows[win]; ok && wd.gpu == d {
		wd.gpu = 0
	}
	delete(dev.claimed, win)
}

func (s *Library) createObject(function string, d native.Address, kind gpuObjectKind, size uint32) native.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter(function) {
		return 0
	}
	if _, ok := s.gpuDevice(d); !ok {
		return 0
	}
	if kind != gpuCommandBuffer && size == 0 {
		return s.failAddr(fmt.Sprintf("%s: size must be greater than zero", function))
	}
	addr := s.alloc()
	s.gpuObjects[addr] = &gpuObject{device: d, kind: kind, size: size}
	return addr
}

func (s *Library) releaseObject(function string, d, obj native.Address, kind gpuObjectKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter(function)
	o, ok := s.gpuObjects[obj]
	if !ok || o.device != d || o.kind != kind {
		s.setError(function + ": invalid object")
		return
	}
	delete(s.gpuObjects, obj)
	s.release(obj)
}

func (s *Library) CreateGPUBuffer(d native.Address, info *native.GPUBufferCreateInfo) native.Address {
	var size uint32
	if info != nil {
		size = info.Size
	}
	return s.createObject("CreateGPUBuffer", d, gpuBuffer, size)
}

func (s *Library) ReleaseGPUBuffer(d, b native.Address) {
	s.releaseObject("ReleaseGPUBuffer", d, b, gpuBuffer)
}

func (s *Library) SetGPUBufferName(d, b native.Address, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("SetGPUBufferName")
	if o, ok := s.gpuObjects[b]; ok && o.device == d && o.kind == gpuBuffer {
		o.name = name
	}
}

// BufferName returns the debug name of a GPU buffer.
func (s *Library) BufferName(b native.Address) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.gpuObjects[b]; ok {
		return o.name
	}
	return ""
}

func (s *Library) CreateGPUTexture(d native.Address, info *native.GPUTextureCreateInfo) native.Address {
	var size uint32
	if info != nil {
		size = info.Width * info.Height
	}
	return s.createObject("CreateGPUTexture", d, gpuTexture, size)
}

func (s *Library) ReleaseGPUTexture(d, t native.Address) {
	s.releaseObject("ReleaseGPUTexture", d, t, gpuTexture)
}

func (s *Library) CreateGPUTransferBuffer(d native.Address, info *native.GPUTransferBufferCreateInfo) native.Address {
	var size uint32
	if info != nil {
		size = info.Size
	}
	return s.createObject("CreateGPUTransferBuffer", d, gpuTransferBuffer, size)
}

func (s *Library) ReleaseGPUTransferBuffer(d, t native.Address) {
	s.releaseObject("ReleaseGPUTransferBuffer", d, t, gpuTransferBuffer)
}

func (s *Library) AcquireGPUCommandBuffer(d native.Address) native.Address {
	return s.createObject("AcquireGPUCommandBuffer", d, gpuCommandBuffer, 0)
}

// endCommandBuffer submits or cancels; either way the buffer is gone.
func (s *Library) endCommandBuffer(function string, cb native.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter(function) {
		return false
	}
	o, ok := s.gpuObjects[cb]
	if !ok || o.kind != gpuCommandBuffer {
		return s.fail(function + ": invalid command buffer")
	}
	delete(s.gpuObjects, cb)
	s.release(cb)
	return true
}

func (s *Library) SubmitGPUCommandBuffer(cb native.Address) bool {
	return s.endCommandBuffer("SubmitGPUCommandBuffer", cb)
}

func (s *Library) CancelGPUCommandBuffer(cb native.Address) bool {
	return s.endCommandBuffer("CancelGPUCommandBuffer", cb)
}
