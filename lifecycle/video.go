package lifecycle

import (
	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

// CreateWindow creates a window and returns its handle.
func (m *Manager) CreateWindow(title string, w, h int32, flags uint64) (resource.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.affine("CreateWindow"); err != nil {
		return 0, err
	}
	addr := m.lib.CreateWindow(title, w, h, flags)
	if err := native.Check(m.lib, "CreateWindow", native.ConvNull, addr); err != nil {
		return 0, err
	}
	id := m.lib.GetWindowID(addr)
	if err := native.Check(m.lib, "GetWindowID", native.ConvZeroID, id); err != nil {
		m.lib.DestroyWindow(addr)
		return 0, err
	}

	rec := newRecord(resource.KindWindow, addr, nil)
	rec.ID = id
	hnd, err := m.adopt(rec, func() { m.lib.DestroyWindow(addr) })
	if err != nil {
		return 0, err
	}
	m.windows[id] = hnd
	return hnd, nil
}

// DestroyWindow destroys a window together with its renderer and releases
// any GPU claim on it.
func (m *Manager) DestroyWindow(h resource.Handle) error {
	defer m.exclusive()()
	return m.release(h, resource.KindWindow)
}

// WindowByID maps a native window ID, as carried by events, to its handle.
func (m *Manager) WindowByID(id uint32) (resource.Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.windows[id]
	return h, ok
}

// CreateRenderer creates a renderer owned by win. An empty name picks the
// default driver.
func (m *Manager) CreateRenderer(win resource.Handle, name string) (resource.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.affine("CreateRenderer"); err != nil {
		return 0, err
	}
	parent, err := m.record(win, resource.KindWindow)
	if err != nil {
		return 0, err
	}
	addr := m.lib.CreateRenderer(parent.Addr, name)
	if err := native.Check(m.lib, "CreateRenderer", native.ConvNull, addr); err != nil {
		return 0, err
	}
	return m.adopt(newRecord(resource.KindRenderer, addr, parent), func() { m.lib.DestroyRenderer(addr) })
}

// DestroyRenderer destroys a renderer; its window stays alive.
func (m *Manager) DestroyRenderer(h resource.Handle) error {
	defer m.exclusive()()
	return m.release(h, resource.KindRenderer)
}

// WindowRenderer returns the renderer owned by win, if any.
func (m *Manager) WindowRenderer(win resource.Handle) (resource.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, err := m.record(win, resource.KindWindow)
	if err != nil {
		return 0, err
	}
	for h, child := range rec.children {
		if child.Kind == resource.KindRenderer {
			return h, nil
		}
	}
	return 0, errors.NotFound(errors.PhaseLifecycle, "renderer of window", win.String())
}
