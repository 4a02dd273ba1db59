package lifecycle

import (
	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

// CreateGPUDevice creates a GPU device supporting at least one of formats.
// An empty name lets the library choose the driver.
func (m *Manager) CreateGPUDevice(formats uint32, debug bool, name string) (resource.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.affine("CreateGPUDevice"); err != nil {
		return 0, err
	}
	addr := m.lib.CreateGPUDevice(formats, debug, name)
	if err := native.Check(m.lib, "CreateGPUDevice", native.ConvNull, addr); err != nil {
		return 0, err
	}
	return m.adopt(newRecord(resource.KindGPUDevice, addr, nil), func() { m.lib.DestroyGPUDevice(addr) })
}

// DestroyGPUDevice releases every object of the device, releases its
// window claims and destroys it.
func (m *Manager) DestroyGPUDevice(h resource.Handle) error {
	defer m.exclusive()()
	return m.release(h, resource.KindGPUDevice)
}

// ClaimWindow lets dev present to win. Claiming a window the device already
// holds is a no-op.
func (m *Manager) ClaimWindow(dev, win resource.Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.affine("ClaimWindowForGPUDevice"); err != nil {
		return err
	}
	d, err := m.record(dev, resource.KindGPUDevice)
	if err != nil {
		return err
	}
	w, err := m.record(win, resource.KindWindow)
	if err != nil {
		return err
	}
	if w.claimedBy == d {
		return nil
	}
	ok := m.lib.ClaimWindowForGPUDevice(d.Addr, w.Addr)
	if err := native.Check(m.lib, "ClaimWindowForGPUDevice", native.ConvBool, ok); err != nil {
		return err
	}
	w.claimedBy = d
	d.attach(w)
	return nil
}

// ReleaseWindow drops dev's claim on win. Releasing an unclaimed window is
// a no-op.
func (m *Manager) ReleaseWindow(dev, win resource.Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.affine("ReleaseWindowFromGPUDevice"); err != nil {
		return err
	}
	d, err := m.record(dev, resource.KindGPUDevice)
	if err != nil {
		return err
	}
	w, err := m.record(win, resource.KindWindow)
	if err != nil {
		return err
	}
	if w.claimedBy != d {
		return nil
	}
	m.lib.ReleaseWindowFromGPUDevice(d.Addr, w.Addr)
	delete(d.attached, w.Handle)
	w.claimedBy = nil
	return nil
}

// gpuChild creates an object owned by dev. Must hold m.mu.
func (m *Manager) gpuChild(function string, dev resource.Handle, kind resource.Kind,
	create func(native.Address) native.Address, release func(d, obj native.Address),
) (resource.Handle, error) {
	if err := m.affine(function); err != nil {
		return 0, err
	}
	d, err := m.record(dev, resource.KindGPUDevice)
	if err != nil {
		return 0, err
	}
	addr := create(d.Addr)
	if err := native.Check(m.lib, function, native.ConvNull, addr); err != nil {
		return 0, err
	}
	return m.adopt(newRecord(kind, addr, d), func() { release(d.Addr, addr) })
}

// CreateGPUBuffer creates a buffer owned by dev.
func (m *Manager) CreateGPUBuffer(dev resource.Handle, info native.GPUBufferCreateInfo) (resource.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gpuChild("CreateGPUBuffer", dev, resource.KindGPUBuffer,
		func(d native.Address) native.Address { return m.lib.CreateGPUBuffer(d, &info) },
		m.lib.ReleaseGPUBuffer)
}

// CreateGPUTexture creates a texture owned by dev.
func (m *Manager) CreateGPUTexture(dev resource.Handle, info native.GPUTextureCreateInfo) (resource.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gpuChild("CreateGPUTexture", dev, resource.KindGPUTexture,
		func(d native.Address) native.Address { return m.lib.CreateGPUTexture(d, &info) },
		m.lib.ReleaseGPUTexture)
}

// CreateGPUTransferBuffer creates a transfer buffer owned by dev.
func (m *Manager) CreateGPUTransferBuffer(dev resource.Handle, info native.GPUTransferBufferCreateInfo) (resource.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gpuChild("CreateGPUTransferBuffer", dev, resource.KindGPUTransferBuffer,
		func(d native.Address) native.Address { return m.lib.CreateGPUTransferBuffer(d, &info) },
		m.lib.ReleaseGPUTransferBuffer)
}

// AcquireCommandBuffer acquires a command buffer from dev. It stays live
// until submitted or cancelled.
func (m *Manager) AcquireCommandBuffer(dev resource.Handle) (resource.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gpuChild("AcquireGPUCommandBuffer", dev, resource.KindGPUCommandBuffer,
		m.lib.AcquireGPUCommandBuffer,
		func(_, cb native.Address) { m.lib.CancelGPUCommandBuffer(cb) })
}

// SubmitCommandBuffer submits cb. The handle is retired whether or not the
// submission succeeds.
func (m *Manager) SubmitCommandBuffer(cb resource.Handle) error {
	return m.endCommandBuffer("SubmitGPUCommandBuffer", cb, m.lib.SubmitGPUCommandBuffer)
}

// CancelCommandBuffer discards cb. The handle is retired either way.
func (m *Manager) CancelCommandBuffer(cb resource.Handle) error {
	return m.endCommandBuffer("CancelGPUCommandBuffer", cb, m.lib.CancelGPUCommandBuffer)
}

func (m *Manager) endCommandBuffer(function string, cb resource.Handle, end func(native.Address) bool) error {
	defer m.exclusive()()

	if err := m.affine(function); err != nil {
		return err
	}
	rec, err := m.record(cb, resource.KindGPUCommandBuffer)
	if err != nil {
		return err
	}
	ok := end(rec.Addr)
	nerr := native.Check(m.lib, function, native.ConvBool, ok)
	m.forget(rec)
	if err := m.reg.Retire(rec.Handle); err != nil {
		return errors.Wrap(errors.PhaseLifecycle, errors.KindInvalidHandle, err, "retire command buffer")
	}
	return nerr
}

// ReleaseGPUObject releases a buffer, texture or transfer buffer.
func (m *Manager) ReleaseGPUObject(h resource.Handle) error {
	defer m.exclusive()()

	switch h.Kind() {
	case resource.KindGPUBuffer, resource.KindGPUTexture, resource.KindGPUTransferBuffer:
		return m.release(h, h.Kind())
	}
	return errors.InvalidHandle(uint64(h), "expected a GPU buffer, texture or transfer buffer, got "+h.Kind().String())
}

// GPUParent returns the device owning a GPU object.
func (m *Manager) GPUParent(h resource.Handle) (native.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h == 0 {
		return 0, errors.InvalidHandle(0, "null handle")
	}
	rec, err := m.record(h, h.Kind())
	if err != nil {
		return 0, err
	}
	if rec.parent == nil || rec.parent.Kind != resource.KindGPUDevice {
		return 0, errors.InvalidHandle(uint64(h), "not a GPU object")
	}
	return rec.parent.Addr, nil
}
