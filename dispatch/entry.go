package dispatch

import (
	"context"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/marshal"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

// Family groups entries the way the SDL headers do.
type Family string

const (
	FamilyCore  Family = "core"
	FamilyVideo Family = "video"
	FamilyAudio Family = "audio"
	FamilyInput Family = "input"
	FamilyGPU   Family = "gpu"
)

// Param is one declared parameter. A nil Type accepts any value and leaves
// validation to Check.
type Param struct {
	Name  string
	Type  wit.Type
	Check func(value any) error
}

// Entry describes one callable function.
type Entry struct {
	Name   string
	Family Family
	Params []Param
	// Result is the result schema. A nil Result means the invoke function
	// already produced the caller-facing value, or nothing.
	Result     wit.Type
	Convention native.Convention
	Affine     bool
	Requires   uint32

	invoke func(c *call) (any, error)
}

// Signature renders the entry in WIT function syntax.
func (e *Entry) Signature() string {
	var b strings.Builder
	b.WriteString(e.Name)
	b.WriteString(": func(")
	for i, p := range e.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteString(": ")
		if p.Type == nil {
			b.WriteString("any")
		} else {
			b.WriteString(marshal.TypeString(p.Type))
		}
	}
	b.WriteString(")")
	if e.Result != nil {
		b.WriteString(" -> ")
		b.WriteString(marshal.TypeString(e.Result))
	}
	return b.String()
}

func param(name string, t wit.Type) Param {
	return Param{Name: name, Type: t}
}

// audioSpecParam is option<audio-spec> with the documented ranges enforced.
func audioSpecParam(name string) Param {
	return Param{
		Name: name,
		Type: marshal.Option(marshal.AudioSpecSchema),
		Check: func(v any) error {
			if v == nil {
				return nil
			}
			_, err := marshal.DecodeAudioSpec(v)
			return err
		},
	}
}

// call carries one invocation through the dispatcher.
type call struct {
	ctx   context.Context
	d     *Dispatcher
	e     *Entry
	raw   []any
	args  []any
	addrs []native.Address
	// release ends the handle lease taken by resolve, if any.
	release func()
}

// run invokes the entry and then ends any lease.
func (c *call) run() (any, error) {
	if c.release != nil {
		defer c.release()
	}
	return c.e.invoke(c)
}

func (c *call) u8(i int) uint8 { return c.args[i].(uint8) }
func (c *call) u32(i int) uint32 { return c.args[i].(uint32) }
func (c *call) u64(i int) uint64 { return c.args[i].(uint64) }
func (c *call) s32(i int) int32 { return c.args[i].(int32) }
func (c *call) f32(i int) float32 { return c.args[i].(float32) }
func (c *call) flag(i int) bool { return c.args[i].(bool) }
func (c *call) str(i int) string { return c.args[i].(string) }
func (c *call) bytes(i int) []byte { return c.args[i].([]byte) }
func (c *call) handle(i int) resource.Handle { return c.args[i].(resource.Handle) }
func (c *call) addr(i int) native.Address { return c.addrs[i] }

// deviceID returns the audio device ID behind a resolved handle.
func (c *call) deviceID(i int) uint32 { return uint32(c.addrs[i]) }

// optString returns the empty string for an absent option<string>.
func (c *call) optString(i int) string {
	if s, ok := c.args[i].(string); ok {
		return s
	}
	return ""
}

// into decodes the raw argument at i into a Go struct using schema, which
// is the parameter's own type or, for an option, the type it wraps.
func (c *call) into(i int, schema wit.Type, dst any) error {
	if err := marshal.DecodeInto(c.raw[i], schema, dst); err != nil {
		return errors.Argument(c.e.Name, i, err, "parameter %q", c.e.Params[i].Name)
	}
	return nil
}

// spec returns the audio spec at i, nil when absent. Ranges were checked
// during argument validation.
func (c *call) spec(i int) (*native.AudioSpec, error) {
	if c.raw[i] == nil {
		return nil, nil
	}
	s, err := marshal.DecodeAudioSpec(c.raw[i])
	if err != nil {
		return nil, errors.Argument(c.e.Name, i, err, "parameter %q", c.e.Params[i].Name)
	}
	return &s, nil
}

// check applies the entry's failure convention to a raw native result.
func (c *call) check(result any) error {
	return native.Check(c.d.lib, c.e.Name, c.e.Convention, result)
}

// value returns v when result passes the convention.
func (c *call) value(v any, result any) (any, error) {
	if err := c.check(result); err != nil {
		return nil, err
	}
	return v, nil
}

// done reports a convention-checked call with no result.
func (c *call) done(result any) (any, error) {
	return nil, c.check(result)
}

// created adapts a lifecycle constructor to an invoke result.
func created(h resource.Handle, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return h, nil
}

// maybe returns v, or the native error when the call signalled NULL.
// Entries using it declare the null convention.
func (c *call) maybe(v any, ok bool) (any, error) {
	if !ok {
		return nil, c.check(nil)
	}
	return v, nil
}

// text is maybe for string results.
func (c *call) text(s string, ok bool) (any, error) {
	return c.maybe(s, ok)
}

// ids is maybe for ID list results.
func (c *call) ids(list []uint32, ok bool) (any, error) {
	return c.maybe(list, ok)
}
