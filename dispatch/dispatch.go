package dispatch

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/events"
	"github.com/wippyai/sdl-bridge/lifecycle"
	"github.com/wippyai/sdl-bridge/marshal"
	"github.com/wippyai/sdl-bridge/native"
)

// Dispatcher validates and executes calls by function name.
type Dispatcher struct {
	lib     native.Library
	mgr     *lifecycle.Manager
	events  *events.Translator
	entries map[string]*Entry
}

// New builds a dispatcher over a manager and the translator reading the
// same library.
func New(mgr *lifecycle.Manager, tr *events.Translator) *Dispatcher {
	d := &Dispatcher{
		lib:     mgr.Library(),
		mgr:     mgr,
		events:  tr,
		entries: make(map[string]*Entry),
	}
	for _, group := range [][]*Entry{
		coreEntries(), videoEntries(), audioEntries(), inputEntries(), gpuEntries(),
	} {
		for _, e := range group {
			d.entries[e.Name] = e
		}
	}
	return d
}

// Lookup returns the entry for name.
func (d *Dispatcher) Lookup(name string) (*Entry, bool) {
	e, ok := d.entries[name]
	return e, ok
}

// Functions lists every entry sorted by family, then name.
func (d *Dispatcher) Functions() []*Entry {
	out := make([]*Entry, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Family != out[j].Family {
			return out[i].Family < out[j].Family
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Constants returns the symbolic constant map. The map is a copy.
func Constants() map[string]uint64 {
	return native.Constants()
}

// Call executes name with caller-supplied arguments and returns the
// caller-facing result: nil, a scalar, a string, a []byte, a list, a
// record map or a handle as uint64.
func (d *Dispatcher) Call(ctx context.Context, name string, args ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, ok := d.entries[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseDispatch, "function", name)
	}

	c, err := d.prepare(ctx, e, args)
	if err != nil {
		d.failed(e, err)
		return nil, err
	}
	out, err := c.run()
	if err != nil {
		d.failed(e, err)
		return nil, err
	}
	if e.Result == nil {
		return out, nil
	}
	enc, err := marshal.Encode(out, e.Result)
	if err != nil {
		err = errors.Wrap(errors.PhaseDispatch, errors.KindShapeMismatch, err, "encoding result of "+name)
		d.failed(e, err)
		return nil, err
	}
	return enc, nil
}

// prepare runs every check that precedes the native call.
func (d *Dispatcher) prepare(ctx context.Context, e *Entry, args []any) (*call, error) {
	if len(args) != len(e.Params) {
		return nil, errors.Argument(e.Name, len(args), nil,
			"expected %d arguments, got %d", len(e.Params), len(args))
	}
	c := &call{
		ctx:   ctx,
		d:     d,
		e:     e,
		raw:   args,
		args:  make([]any, len(args)),
		addrs: make([]native.Address, len(args)),
	}
	for i, p := range e.Params {
		v := args[i]
		if p.Type != nil {
			dec, err := marshal.Decode(v, p.Type)
			if err != nil {
				return nil, errors.Argument(e.Name, i, err, "parameter %q", p.Name)
			}
			v = dec
		}
		if p.Check != nil {
			if err := p.Check(args[i]); err != nil {
				return nil, errors.Argument(e.Name, i, err, "parameter %q", p.Name)
			}
		}
		c.args[i] = v
	}

	if e.Affine {
		if err := d.mgr.Guard().Check(e.Name); err != nil {
			return nil, err
		}
	}
	if missing := e.Requires &^ d.mgr.Initialized(); missing != 0 {
		return nil, errors.NotInitialized(e.Name, missing)
	}

	if err := d.resolve(e, c); err != nil {
		return nil, err
	}
	return c, nil
}

// resolve maps handle arguments to addresses. Unless the call consumes a
// handle, it leaves c holding a lease so none of them is retired before
// the native call returns. Consuming calls are serialized by the manager.
func (d *Dispatcher) resolve(e *Entry, c *call) error {
	leased := false
	for _, p := range e.Params {
		if _, ok := marshal.HandleKind(p.Type); ok {
			leased = true
		}
		if marshal.Owned(p.Type) {
			leased = false
			break
		}
	}
	if leased {
		c.release = d.mgr.Lease()
	}

	reg := d.mgr.Registry()
	for i, p := range e.Params {
		kind, ok := marshal.HandleKind(p.Type)
		if !ok {
			continue
		}
		addr, err := reg.ResolveKind(c.handle(i), kind)
		if err != nil {
			if c.release != nil {
				c.release()
			}
			return err
		}
		c.addrs[i] = addr
	}
	return nil
}

func (d *Dispatcher) failed(e *Entry, err error) {
	Logger().Debug("call failed",
		zap.String("function", e.Name),
		zap.String("kind", string(errors.KindOf(err))),
		zap.Error(err))
}
