package wasmhost

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	sdlbridge "github.com/wippyai/sdl-bridge"
	"github.com/wippyai/sdl-bridge/dispatch"
	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/marshal"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/native/sim"
)

const (
	namePtr = 0
	argsPtr = 1024
	outPtr  = 8192
	outCap  = 32768
)

type guest struct {
	t   *testing.T
	ctx context.Context
	mod api.Module
}

func newGuest(t *testing.T) *guest {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)
	ctx := context.Background()

	b, err := sdlbridge.New(sdlbridge.Config{Library: sim.New()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	r := wazero.NewRuntime(ctx)
	t.Cleanup(func() { _ = r.Close(ctx) })

	_, err = New(b).Instantiate(ctx, r)
	require.NoError(t, err)
	mod, err := r.Instantiate(ctx, guestModule())
	require.NoError(t, err)
	return &guest{t: t, ctx: ctx, mod: mod}
}

func (g *guest) invoke(fn string, params ...uint64) int32 {
	g.t.Helper()
	res, err := g.mod.ExportedFunction(fn).Call(g.ctx, params...)
	require.NoError(g.t, err)
	return api.DecodeI32(res[0])
}

func (g *guest) call(name string, args ...any) int32 {
	g.t.Helper()
	if args == nil {
		args = []any{}
	}
	raw, err := json.Marshal(args)
	require.NoError(g.t, err)
	return g.callRaw(name, raw)
}

func (g *guest) callRaw(name string, raw []byte) int32 {
	g.t.Helper()
	mem := g.mod.Memory()
	require.True(g.t, mem.Write(namePtr, []byte(name)))
	require.True(g.t, mem.Write(argsPtr, raw))
	return g.invoke("call", namePtr, uint64(len(name)), argsPtr, uint64(len(raw)))
}

func (g *guest) read(n int32) []byte {
	g.t.Helper()
	b, ok := g.mod.Memory().Read(outPtr, uint32(n))
	require.True(g.t, ok)
	return append([]byte(nil), b...)
}

func (g *guest) result() []byte {
	g.t.Helper()
	n := g.invoke("result", outPtr, outCap)
	require.GreaterOrEqual(g.t, n, int32(0))
	return g.read(n)
}

func (g *guest) mustCall(name string, args ...any) any {
	g.t.Helper()
	n := g.call(name, args...)
	data := g.result()
	require.GreaterOrEqual(g.t, n, int32(0), "%s: %s", name, data)
	var out any
	require.NoError(g.t, json.Unmarshal(data, &out))
	return out
}

func (g *guest) failure(name string, args ...any) (int32, errorBody) {
	g.t.Helper()
	n := g.call(name, args...)
	require.Less(g.t, n, int32(0))
	var rec map[string]errorBody
	require.NoError(g.t, json.Unmarshal(g.result(), &rec))
	return n, rec["error"]
}

func TestGuestCallRoundTrip(t *testing.T) {
	g := newGuest(t)

	assert.Nil(t, g.mustCall("Init", native.InitVideo))
	win := g.mustCall("CreateWindow", "guest", 320, 240, 0)
	assert.NotZero(t, win)

	assert.Equal(t, "guest", g.mustCall("GetWindowTitle", win))
	size := g.mustCall("GetWindowSize", win).(map[string]any)
	assert.Equal(t, float64(320), size["w"])

	g.mustCall("DestroyWindow", win)
	code, body := g.failure("GetWindowTitle", win)
	assert.Equal(t, CodeInvalidHandle, code)
	assert.Equal(t, "invalid_handle", body.Kind)
}

func TestGuestCallErrors(t *testing.T) {
	g := newGuest(t)

	code, body := g.failure("NoSuchFunction")
	assert.Equal(t, CodeNotFound, code)
	assert.Equal(t, "not_found", body.Kind)

	code, body = g.failure("CreateWindow", "short", 1)
	assert.Equal(t, CodeArgument, code)
	require.NotNil(t, body.Param)
	assert.Equal(t, 2, *body.Param)
	assert.Equal(t, "CreateWindow", body.Function)

	code, _ = g.failure("CreateWindow", "early", 1, 1, 0)
	assert.Equal(t, CodeNotInitialized, code)

	code = g.callRaw("Init", []byte(`{"flags":1}`))
	assert.Equal(t, CodeArgument, code)
	assert.Contains(t, string(g.result()), "JSON array")

	code = g.callRaw("Init", []byte(`[1] [2]`))
	assert.Equal(t, CodeArgument, code)
	assert.Contains(t, string(g.result()), "JSON array")
}

// recordingCaller keeps the arguments of the last call.
type recordingCaller struct {
	name string
	args []any
}

func (r *recordingCaller) Call(_ context.Context, name string, args ...any) (any, error) {
	r.name, r.args = name, args
	return nil, nil
}

func (r *recordingCaller) Lookup(string) (*dispatch.Entry, bool) { return nil, false }

func (r *recordingCaller) Constants() map[string]uint64 { return nil }

func TestLargeIntegersArriveExactly(t *testing.T) {
	rec := &recordingCaller{}
	h := New(rec)

	// 2^53+1 has no float64 representation.
	_, err := h.invoke(context.Background(), "CreateWindow", []byte(`["t",1,1,9007199254740993]`))
	require.NoError(t, err)
	require.Len(t, rec.args, 4)
	assert.Equal(t, json.Number("9007199254740993"), rec.args[3])

	flags, err := marshal.Decode(rec.args[3], wit.U64{})
	require.NoError(t, err)
	assert.Equal(t, uint64(9007199254740993), flags)

	_, err = marshal.Decode(json.Number("18446744073709551616"), wit.U64{})
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))
}

func TestGuestMemoryBounds(t *testing.T) {
	g := newGuest(t)

	assert.Equal(t, CodeMemory, g.invoke("call", 70000, 4, argsPtr, 2))
	assert.Equal(t, CodeMemory, g.invoke("call", namePtr, 4, 65530, 100))

	require.Greater(t, g.call("GetPlatform"), int32(1))
	assert.Equal(t, CodeMemory, g.invoke("result", 65535, outCap))
}

func TestGuestResultRetry(t *testing.T) {
	g := newGuest(t)

	n := g.call("GetPlatform")
	require.Greater(t, n, int32(2))

	assert.Equal(t, n, g.invoke("result", outPtr, 1))
	assert.Equal(t, n, g.invoke("result", outPtr, outCap))
	assert.Zero(t, g.invoke("result", outPtr, outCap))
}

func TestGuestByteBuffersUseBase64(t *testing.T) {
	g := newGuest(t)

	g.mustCall("Init", native.InitAudio)
	spec := map[string]any{"format": native.AudioS16, "channels": 2, "freq": 48000}
	stream := g.mustCall("CreateAudioStream", spec, spec)

	data := base64.StdEncoding.EncodeToString(make([]byte, 16))
	g.mustCall("PutAudioStreamData", stream, data)
	assert.Equal(t, float64(16), g.mustCall("GetAudioStreamAvailable", stream))

	out := g.mustCall("GetAudioStreamData", stream, 8)
	raw, err := base64.StdEncoding.DecodeString(out.(string))
	require.NoError(t, err)
	assert.Len(t, raw, 8)

	g.mustCall("PutAudioStreamData", stream, []int{0, 0, 0, 0})
	assert.Equal(t, float64(12), g.mustCall("GetAudioStreamAvailable", stream))

	code, body := g.failure("PutAudioStreamData", stream, "not base64!")
	assert.Equal(t, CodeArgument, code)
	require.NotNil(t, body.Param)
	assert.Equal(t, 1, *body.Param)
}

func TestGuestPollEvent(t *testing.T) {
	g := newGuest(t)
	g.mustCall("Init", native.InitVideo)

	assert.Zero(t, g.invoke("poll_event", outPtr, outCap))

	g.mustCall("PushEvent", map[string]any{"type": "user", "code": 7})

	n := g.invoke("poll_event", outPtr, 4)
	require.Greater(t, n, int32(4))
	assert.Equal(t, n, g.invoke("poll_event", outPtr, outCap))

	var ev map[string]any
	require.NoError(t, json.Unmarshal(g.read(n), &ev))
	assert.Equal(t, "user", ev["type"])
	assert.Equal(t, float64(7), ev["code"])

	assert.Zero(t, g.invoke("poll_event", outPtr, outCap))
}

func TestGuestConstants(t *testing.T) {
	g := newGuest(t)

	n := g.invoke("constants", outPtr, 1)
	require.Greater(t, n, int32(1))
	assert.Equal(t, n, g.invoke("constants", outPtr, outCap))

	var consts map[string]uint64
	require.NoError(t, json.Unmarshal(g.read(n), &consts))
	assert.Equal(t, uint64(native.InitVideo), consts["INIT_VIDEO"])
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want int32
	}{
		{errors.Argument("f", 0, nil, "bad"), CodeArgument},
		{errors.InvalidHandle(9, "stale"), CodeInvalidHandle},
		{errors.Native("f", "boom"), CodeNative},
		{errors.NotFound(errors.PhaseDispatch, "function", "x"), CodeNotFound},
		{errors.Closed(errors.PhaseDispatch, "bridge"), CodeClosed},
		{context.Canceled, CodeInternal},
	}
	for _, tt := range tests {
		if got := Code(tt.err); got != tt.want {
			t.Errorf("Code(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
