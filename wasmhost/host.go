package wasmhost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/sdl-bridge/dispatch"
	"github.com/wippyai/sdl-bridge/errors"
)

// ModuleName is the import module guests link against.
const ModuleName = "sdl"

// Caller is the bridge surface the host module forwards to.
type Caller interface {
	Call(ctx context.Context, name string, args ...any) (any, error)
	Lookup(name string) (*dispatch.Entry, bool)
	Constants() map[string]uint64
}

// Host holds the per-guest state behind the sdl import module: the value
// the last call left for result and an event that did not fit the guest's
// buffer. One Host serves one guest instance.
type Host struct {
	caller  Caller
	pending []byte
	event   []byte
	mu      sync.Mutex
}

// New creates a host forwarding to caller.
func New(caller Caller) *Host {
	return &Host{caller: caller}
}

var (
	i32x2 = []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}
	i32x4 = []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32}
	i32   = []api.ValueType{api.ValueTypeI32}
)

// Instantiate registers the sdl module in r. Guests importing it must be
// instantiated afterwards and must export their memory.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(ModuleName)

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.call), i32x4, i32).
		WithParameterNames("name_ptr", "name_len", "args_ptr", "args_len").
		Export("call")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.result), i32x2, i32).
		WithParameterNames("ptr", "cap").
		Export("result")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.pollEvent), i32x2, i32).
		WithParameterNames("ptr", "cap").
		Export("poll_event")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.constants), i32x2, i32).
		WithParameterNames("ptr", "cap").
		Export("constants")

	return builder.Instantiate(ctx)
}

// call(name_ptr, name_len, args_ptr, args_len) -> i32
func (h *Host) call(ctx context.Context, mod api.Module, stack []uint64) {
	name, ok := read(mod, stack[0], stack[1])
	if !ok {
		stack[0] = status(CodeMemory)
		return
	}
	raw, ok := read(mod, stack[2], stack[3])
	if !ok {
		stack[0] = status(CodeMemory)
		return
	}

	out, err := h.invoke(ctx, string(name), raw)
	if err != nil {
		Logger().Debug("guest call failed", zap.String("function", string(name)), zap.Error(err))
		h.setPending(errorRecord(err))
		stack[0] = status(Code(err))
		return
	}
	data, err := json.Marshal(out)
	if err != nil {
		err = errors.Wrap(errors.PhaseHost, errors.KindEncoding, err, "encoding result of "+string(name))
		h.setPending(errorRecord(err))
		stack[0] = status(CodeEncoding)
		return
	}
	h.setPending(data)
	stack[0] = uint64(uint32(len(data)))
}

// invoke decodes the JSON argument array and forwards the call. Byte
// buffer parameters travel as base64 strings.
func (h *Host) invoke(ctx context.Context, name string, raw []byte) (any, error) {
	var args []any
	if len(raw) > 0 {
		var err error
		if args, err = decodeArgs(raw); err != nil {
			return nil, errors.New(errors.PhaseHost, errors.KindArgument).
				Function(name).
				Cause(err).
				Detail("arguments must be a JSON array").
				Build()
		}
	}
	if e, ok := h.caller.Lookup(name); ok && len(args) == len(e.Params) {
		for i, p := range e.Params {
			s, isString := args[i].(string)
			if !isString || !isBytes(p.Type) {
				continue
			}
			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, errors.Argument(name, i, err, "parameter %q is not base64", p.Name)
			}
			args[i] = b
		}
	}
	return h.caller.Call(ctx, name, args...)
}

// decodeArgs parses a JSON array keeping numbers as json.Number, so u64
// flags and handles above 2^53 arrive exactly.
func decodeArgs(raw []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var args []any
	if err := dec.Decode(&args); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after the argument array")
	}
	return args, nil
}

// result(ptr, cap) -> i32
func (h *Host) result(_ context.Context, mod api.Module, stack []uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n, code := deliver(mod, stack[0], stack[1], h.pending)
	if code != 0 {
		stack[0] = status(code)
		return
	}
	if uint32(stack[1]) >= n {
		h.pending = nil
	}
	stack[0] = uint64(n)
}

// poll_event(ptr, cap) -> i32
func (h *Host) pollEvent(ctx context.Context, mod api.Module, stack []uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.event == nil {
		ev, err := h.caller.Call(ctx, "PollEvent")
		if err != nil {
			h.pending = errorRecord(err)
			stack[0] = status(Code(err))
			return
		}
		if ev == nil {
			stack[0] = 0
			return
		}
		data, err := json.Marshal(ev)
		if err != nil {
			err = errors.Wrap(errors.PhaseHost, errors.KindEncoding, err, "encoding event")
			h.pending = errorRecord(err)
			stack[0] = status(CodeEncoding)
			return
		}
		h.event = data
	}

	n, code := deliver(mod, stack[0], stack[1], h.event)
	if code != 0 {
		stack[0] = status(code)
		return
	}
	if uint32(stack[1]) >= n {
		h.event = nil
	}
	stack[0] = uint64(n)
}

// constants(ptr, cap) -> i32
func (h *Host) constants(_ context.Context, mod api.Module, stack []uint64) {
	data, err := json.Marshal(h.caller.Constants())
	if err != nil {
		stack[0] = status(CodeEncoding)
		return
	}
	n, code := deliver(mod, stack[0], stack[1], data)
	if code != 0 {
		stack[0] = status(code)
		return
	}
	stack[0] = uint64(n)
}

func (h *Host) setPending(data []byte) {
	h.mu.Lock()
	h.pending = data
	h.mu.Unlock()
}

// deliver copies data to guest memory when it fits in cap and returns its
// length either way, so a guest can retry with a larger buffer.
func deliver(mod api.Module, ptr, capacity uint64, data []byte) (uint32, int32) {
	n := uint32(len(data))
	if n == 0 || uint32(capacity) < n {
		return n, 0
	}
	mem := mod.Memory()
	if mem == nil || !mem.Write(uint32(ptr), data) {
		return 0, CodeMemory
	}
	return n, 0
}

func read(mod api.Module, ptr, length uint64) ([]byte, bool) {
	if uint32(length) == 0 {
		return nil, true
	}
	mem := mod.Memory()
	if mem == nil {
		return nil, false
	}
	b, ok := mem.Read(uint32(ptr), uint32(length))
	if !ok {
		return nil, false
	}
	// Read aliases guest memory.
	out := make([]byte, len(b))
	copy(out, b)
	return out, true
}

func status(code int32) uint64 {
	return api.EncodeI32(code)
}

func isBytes(t wit.Type) bool {
	td, ok := t.(*wit.TypeDef)
	if !ok {
		return false
	}
	l, ok := td.Kind.(*wit.List)
	if !ok {
		return false
	}
	_, ok = l.Type.(wit.U8)
	return ok
}

type errorBody struct {
	Kind     string `json:"kind"`
	Phase    string `json:"phase,omitempty"`
	Function string `json:"function,omitempty"`
	Param    *int   `json:"param,omitempty"`
	Message  string `json:"message"`
}

func errorRecord(err error) []byte {
	body := errorBody{Kind: "internal", Message: err.Error()}
	var e *errors.Error
	if errors.As(err, &e) {
		body.Kind = string(e.Kind)
		body.Phase = string(e.Phase)
		body.Function = e.Function
		if e.Param >= 0 {
			p := e.Param
			body.Param = &p
		}
	}
	data, _ := json.Marshal(map[string]errorBody{"error": body})
	return data
}
