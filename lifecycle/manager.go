package lifecycle

import (
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/sdl-bridge/affinity"
	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

// teardownOrder is the kind order Quit destroys top-level resources in.
// GPU devices go before windows so their claims are released first.
var teardownOrder = []resource.Kind{
	resource.KindGPUDevice,
	resource.KindAudioStream,
	resource.KindAudioDevice,
	resource.KindGamepad,
	resource.KindWindow,
}

// Manager creates, tracks and destroys native resources.
type Manager struct {
	lib      native.Library
	reg      *resource.Registry
	guard    *affinity.Guard
	records  *resource.Table[*Record]
	windows  map[uint32]resource.Handle
	gamepads map[uint32]resource.Handle
	detach   func()

	// use is held shared by calls working on resolved addresses and
	// exclusively by every path that retires handles. It is taken before mu.
	use         sync.RWMutex
	mu          sync.Mutex
	initialized uint32
}

// NewManager creates a manager over lib that registers handles in reg.
// guard may be nil, in which case thread affinity is not enforced.
func NewManager(lib native.Library, reg *resource.Registry, guard *affinity.Guard) *Manager {
	if guard == nil {
		guard = &affinity.Guard{}
	}
	m := &Manager{
		lib:      lib,
		reg:      reg,
		guard:    guard,
		records:  resource.NewTable[*Record](nil),
		windows:  make(map[uint32]resource.Handle),
		gamepads: make(map[uint32]resource.Handle),
	}
	m.detach = m.records.Attach(reg)
	return m
}

// Registry returns the registry handles are issued from.
func (m *Manager) Registry() *resource.Registry { return m.reg }

// Guard returns the thread affinity guard claimed by Init.
func (m *Manager) Guard() *affinity.Guard { return m.guard }

// Library returns the native library.
func (m *Manager) Library() native.Library { return m.lib }

// Init initializes the given subsystems. Calls are cumulative: flags
// already initialized are left alone and new ones are added. The first
// successful Init makes the calling thread the owner of affine calls.
func (m *Manager) Init(flags uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.guard.Check("Init"); err != nil {
		return err
	}
	ok := m.lib.Init(flags)
	if err := native.Check(m.lib, "Init", native.ConvBool, ok); err != nil {
		return err
	}
	m.initialized |= native.ExpandInitFlags(flags)
	owner := m.guard.Claim()
	Logger().Debug("initialized",
		zap.Uint32("flags", flags),
		zap.Uint32("active", m.initialized),
		zap.Int("owner_thread", owner))
	return nil
}

// Initialized returns the active subsystem flags.
func (m *Manager) Initialized() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// Quit destroys every live resource, shuts the native library down and
// releases thread ownership. Quit without a prior Init is a no-op.
func (m *Manager) Quit() error {
	defer m.exclusive()()

	if m.initialized == 0 {
		return nil
	}
	if err := m.guard.Check("Quit"); err != nil {
		return err
	}
	err := m.destroyAll()
	m.lib.Quit()
	m.initialized = 0
	m.guard.Release()
	Logger().Debug("quit", zap.Error(err))
	return err
}

// Close tears everything down and detaches from the registry. Called off
// the owning thread it fails and leaves everything in place.
func (m *Manager) Close() error {
	err := m.Quit()
	if errors.Is(err, errors.ErrThreadAffinity) {
		return err
	}
	unlock := m.exclusive()
	defer unlock()
	err = multierr.Append(err, m.destroyAll())
	if m.detach != nil {
		m.detach()
		m.detach = nil
	}
	return err
}

// Len returns the number of live managed resources.
func (m *Manager) Len() int { return m.records.Len() }

// Record returns the ownership record for a live handle.
func (m *Manager) Record(h resource.Handle) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h == 0 {
		return nil, errors.InvalidHandle(0, "null handle")
	}
	return m.record(h, h.Kind())
}

// Resolve returns the address behind h after checking its kind.
func (m *Manager) Resolve(h resource.Handle, kind resource.Kind) (native.Address, error) {
	return m.reg.ResolveKind(h, kind)
}

// Lease blocks handle retirement until the returned release function is
// called. Hold it from resolving a handle until the native call using its
// address returns. The holder must not destroy resources itself.
func (m *Manager) Lease() (release func()) {
	m.use.RLock()
	return m.use.RUnlock
}

// With resolves h as kind and runs fn with its address while h cannot be
// retired.
func (m *Manager) With(h resource.Handle, kind resource.Kind, fn func(native.Address) error) error {
	release := m.Lease()
	defer release()
	addr, err := m.reg.ResolveKind(h, kind)
	if err != nil {
		return err
	}
	return fn(addr)
}

// exclusive locks out leases, then takes mu. Paths that retire handles
// hold it.
func (m *Manager) exclusive() (unlock func()) {
	m.use.Lock()
	m.mu.Lock()
	return func() {
		m.mu.Unlock()
		m.use.Unlock()
	}
}

// Destroy releases any managed resource, cascading to its children.
func (m *Manager) Destroy(h resource.Handle) error {
	defer m.exclusive()()
	if h == 0 {
		return errors.InvalidHandle(0, "null handle")
	}
	return m.release(h, h.Kind())
}

// record resolves h as kind and returns its record. Must hold m.mu.
func (m *Manager) record(h resource.Handle, kind resource.Kind) (*Record, error) {
	if _, err := m.reg.ResolveKind(h, kind); err != nil {
		return nil, err
	}
	rec, ok := m.records.Get(h)
	if !ok {
		return nil, errors.InvalidHandle(uint64(h), "not owned by this manager")
	}
	return rec, nil
}

// affine fails when the caller is not on the owning thread.
func (m *Manager) affine(function string) error {
	return m.guard.Check(function)
}

// adopt registers a freshly created native resource. If registration fails
// the resource is destroyed again before the error is returned. Must hold
// m.mu.
func (m *Manager) adopt(rec *Record, rollback func()) (resource.Handle, error) {
	h, err := m.reg.Register(rec.Kind, rec.Addr)
	if err != nil {
		rollback()
		Logger().Debug("registration failed, native resource destroyed",
			zap.Stringer("kind", rec.Kind),
			zap.Uintptr("addr", uintptr(rec.Addr)),
			zap.Error(err))
		return 0, err
	}
	rec.Handle = h
	m.records.Set(h, rec)
	if rec.parent != nil {
		rec.parent.adopt(rec)
	}
	Logger().Debug("created", zap.Stringer("handle", h), zap.Stringer("parent", rec.Parent()))
	return h, nil
}

// release validates h and destroys it. Must hold m.mu.
func (m *Manager) release(h resource.Handle, kind resource.Kind) error {
	rec, err := m.record(h, kind)
	if err != nil {
		return err
	}
	if err := m.affineKind(rec.Kind); err != nil {
		return err
	}
	return m.destroy(rec)
}

func (m *Manager) affineKind(kind resource.Kind) error {
	switch kind {
	case resource.KindAudioDevice, resource.KindAudioStream:
		return nil
	}
	return m.affine("Destroy " + kind.String())
}

// destroy tears rec down: children, bindings, native destructor, handle.
// Must hold m.mu.
func (m *Manager) destroy(rec *Record) error {
	var errs error
	for _, child := range rec.children {
		errs = multierr.Append(errs, m.destroy(child))
	}

	switch rec.Kind {
	case resource.KindWindow:
		if dev := rec.claimedBy; dev != nil {
			m.lib.ReleaseWindowFromGPUDevice(dev.Addr, rec.Addr)
			delete(dev.attached, rec.Handle)
			rec.claimedBy = nil
		}
		m.lib.DestroyWindow(rec.Addr)
		delete(m.windows, rec.ID)
	case resource.KindRenderer:
		m.lib.DestroyRenderer(rec.Addr)
	case resource.KindAudioDevice:
		// Closing a device unbinds its streams without destroying them.
		for _, s := range rec.attached {
			s.bound = nil
		}
		rec.attached = nil
		m.lib.CloseAudioDevice(rec.ID)
	case resource.KindAudioStream:
		if dev := rec.bound; dev != nil {
			delete(dev.attached, rec.Handle)
			rec.bound = nil
		}
		m.lib.DestroyAudioStream(rec.Addr)
	case resource.KindGamepad:
		m.lib.CloseGamepad(rec.Addr)
		delete(m.gamepads, rec.ID)
	case resource.KindGPUDevice:
		for _, win := range rec.attached {
			m.lib.ReleaseWindowFromGPUDevice(rec.Addr, win.Addr)
			win.claimedBy = nil
		}
		rec.attached = nil
		m.lib.DestroyGPUDevice(rec.Addr)
	case resource.KindGPUBuffer:
		m.lib.ReleaseGPUBuffer(rec.parent.Addr, rec.Addr)
	case resource.KindGPUTexture:
		m.lib.ReleaseGPUTexture(rec.parent.Addr, rec.Addr)
	case resource.KindGPUTransferBuffer:
		m.lib.ReleaseGPUTransferBuffer(rec.parent.Addr, rec.Addr)
	case resource.KindGPUCommandBuffer:
		// A pending command buffer must be cancelled before its device goes away.
		ok := m.lib.CancelGPUCommandBuffer(rec.Addr)
		errs = multierr.Append(errs, native.Check(m.lib, "CancelGPUCommandBuffer", native.ConvBool, ok))
	}

	m.forget(rec)
	errs = multierr.Append(errs, m.reg.Retire(rec.Handle))
	Logger().Debug("destroyed", zap.Stringer("handle", rec.Handle))
	return errs
}

// forget unlinks rec from its parent. Must hold m.mu.
func (m *Manager) forget(rec *Record) {
	if rec.parent != nil {
		delete(rec.parent.children, rec.Handle)
	}
}

// destroyAll destroys every top-level record in teardown order. Must hold
// m.mu.
func (m *Manager) destroyAll() error {
	byKind := make(map[resource.Kind][]*Record)
	m.records.Each(func(_ resource.Handle, rec *Record) bool {
		if rec.parent == nil {
			byKind[rec.Kind] = append(byKind[rec.Kind], rec)
		}
		return true
	})

	var errs error
	for _, kind := range teardownOrder {
		for _, rec := range byKind[kind] {
			errs = multierr.Append(errs, m.destroy(rec))
		}
	}
	return errs
}
