package sdlbridge

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/sdl-bridge/affinity"
	"github.com/wippyai/sdl-bridge/dispatch"
	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/events"
	"github.com/wippyai/sdl-bridge/lifecycle"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

// Bridge owns one native library and every handle issued against it.
type Bridge struct {
	lib        native.Library
	reg        *resource.Registry
	mgr        *lifecycle.Manager
	translator *events.Translator
	dispatcher *dispatch.Dispatcher
	closed     bool
	mu         sync.RWMutex
}

// New wires a bridge from cfg. A non-nil cfg.Logger replaces the
// process-wide lifecycle and dispatch loggers; see Config.Logger.
func New(cfg Config) (*Bridge, error) {
	if cfg.Logger != nil {
		lifecycle.SetLogger(cfg.Logger.Named("lifecycle"))
		dispatch.SetLogger(cfg.Logger.Named("dispatch"))
	}
	lib := cfg.Library
	if lib == nil {
		lib = DefaultLibrary()
	}

	var guard *affinity.Guard
	switch cfg.Affinity {
	case AffinityEnforce:
		guard = &affinity.Guard{}
	case AffinityOff:
		guard = affinity.Disabled()
	default:
		return nil, errors.New(errors.PhaseArgument, errors.KindArgument).
			Detail("unknown affinity mode %d", int(cfg.Affinity)).
			Build()
	}

	reg := resource.NewRegistry()
	mgr := lifecycle.NewManager(lib, reg, guard)
	tr := events.NewTranslator(lib, mgr, guard)
	return &Bridge{
		lib:        lib,
		reg:        reg,
		mgr:        mgr,
		translator: tr,
		dispatcher: dispatch.New(mgr, tr),
	}, nil
}

// Call invokes an SDL function by name. See dispatch.Dispatcher.Call for
// the argument and result conventions.
func (b *Bridge) Call(ctx context.Context, name string, args ...any) (any, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, errors.Closed(errors.PhaseDispatch, "bridge")
	}
	return b.dispatcher.Call(ctx, name, args...)
}

// Functions lists the callable functions.
func (b *Bridge) Functions() []*dispatch.Entry {
	return b.dispatcher.Functions()
}

// Lookup returns the function table entry for name.
func (b *Bridge) Lookup(name string) (*dispatch.Entry, bool) {
	return b.dispatcher.Lookup(name)
}

// Constants returns the symbolic constant map.
func (b *Bridge) Constants() map[string]uint64 {
	return dispatch.Constants()
}

// Library returns the native library.
func (b *Bridge) Library() native.Library { return b.lib }

// Registry returns the handle registry.
func (b *Bridge) Registry() *resource.Registry { return b.reg }

// Manager returns the lifecycle manager for typed resource access.
func (b *Bridge) Manager() *lifecycle.Manager { return b.mgr }

// Events returns the event translator for typed event access.
func (b *Bridge) Events() *events.Translator { return b.translator }

// Dispatcher returns the function table.
func (b *Bridge) Dispatcher() *dispatch.Dispatcher { return b.dispatcher }

// Close destroys every live resource, quits the native library and closes
// the registry. Later calls fail with a closed error. Close must run on the
// owning thread; elsewhere it fails and the bridge stays open.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	err := b.mgr.Close()
	if errors.Is(err, errors.ErrThreadAffinity) {
		return err
	}
	b.closed = true

	err = multierr.Append(err, b.reg.Close())
	lifecycle.Logger().Debug("bridge closed", zap.Error(err))
	return err
}
