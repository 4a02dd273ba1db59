package events

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/native/sim"
	"github.com/wippyai/sdl-bridge/resource"
)

type fakeIDs struct {
	windows  map[uint32]resource.Handle
	gamepads map[uint32]resource.Handle
}

func (f fakeIDs) WindowByID(id uint32) (resource.Handle, bool) {
	h, ok := f.windows[id]
	return h, ok
}

func (f fakeIDs) GamepadByID(id uint32) (resource.Handle, bool) {
	h, ok := f.gamepads[id]
	return h, ok
}

func (f fakeIDs) AudioDeviceByID(uint32) (resource.Handle, bool) { return 0, false }

func newTranslator(t *testing.T, ids Resolver) (*Translator, *sim.Library) {
	t.Helper()
	lib := sim.New()
	require.True(t, lib.Init(native.InitEvents|native.InitGamepad))
	return NewTranslator(lib, ids, nil), lib
}

func TestDecodeUnknownIsGeneric(t *testing.T) {
	var raw native.RawEvent
	binary.LittleEndian.PutUint32(raw[0:], 0x7777)
	binary.LittleEndian.PutUint64(raw[8:], 123456)
	raw[100] = 0xAB

	ev := Decode(&raw, nil)
	g, ok := ev.(Generic)
	require.True(t, ok, "got %T", ev)
	assert.Equal(t, uint32(0x7777), g.Type)
	assert.Equal(t, uint64(123456), g.Timestamp)
	assert.Equal(t, byte(0xAB), g.Raw[100])
	assert.Equal(t, "unknown", Name(g.Type))
}

func TestDecodeResolvesWindow(t *testing.T) {
	ids := fakeIDs{windows: map[uint32]resource.Handle{3: 0x1000005}}
	raw, err := Encode(Window{Common: Common{Type: native.EventWindowResized}, WindowID: 3, Data1: 800, Data2: 600})
	require.NoError(t, err)

	ev := Decode(raw, ids)
	w, ok := ev.(Window)
	require.True(t, ok)
	assert.Equal(t, resource.Handle(0x1000005), w.Window)
	assert.Equal(t, int32(800), w.Data1)
	assert.Equal(t, int32(600), w.Data2)
	assert.Equal(t, "window-resized", Name(w.Type))

	raw, err = Encode(Window{Common: Common{Type: native.EventWindowShown}, WindowID: 99})
	require.NoError(t, err)
	assert.Zero(t, Decode(raw, ids).(Window).Window)
}

func TestPollEmptyIsNotAnError(t *testing.T) {
	tr, _ := newTranslator(t, nil)
	ev, ok, err := tr.PollNext()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, ev)
}

func TestPushPollRoundTrip(t *testing.T) {
	tr, _ := newTranslator(t, nil)

	sent := []Event{
		User{Common: Common{Type: native.EventUser + 5}, WindowID: 1, Code: -42},
		Keyboard{WindowID: 2, Which: 1, Scancode: 4, Key: 'a', Mod: native.KeymodLShift, Down: true, Repeat: true},
		Window{Common: Common{Type: native.EventWindowMoved}, WindowID: 2, Data1: -10, Data2: 20},
		MouseMotion{X: 1.5, Y: 2.5, XRel: -0.5, YRel: 0.25, State: 1},
		MouseButton{Button: 3, Down: false, Clicks: 2, X: 10, Y: 20},
		MouseWheel{X: 0, Y: -1, Direction: 1, MouseX: 5, MouseY: 6},
		GamepadAxis{Which: 7, Axis: 2, Value: -32768},
		GamepadButton{Which: 7, Button: 11, Down: true},
		Quit{},
	}
	for _, ev := range sent {
		require.NoError(t, tr.Push(ev), "%T", ev)
	}

	for _, want := range sent {
		got, ok, err := tr.PollNext()
		require.NoError(t, err)
		require.True(t, ok)
		assert.IsType(t, want, got)
		assert.NotZero(t, got.Header().Timestamp)

		wantDesc, err := Describe(want)
		require.NoError(t, err)
		gotDesc, err := Describe(got)
		require.NoError(t, err)
		delete(wantDesc, "timestamp")
		delete(gotDesc, "timestamp")
		if want.Header().Type == 0 {
			delete(wantDesc, "type")
			delete(wantDesc, "type-code")
			delete(gotDesc, "type")
			delete(gotDesc, "type-code")
		}
		assert.Equal(t, wantDesc, gotDesc)
	}
}

func TestDefaultTypes(t *testing.T) {
	tests := []struct {
		ev   Event
		want uint32
	}{
		{Quit{}, native.EventQuit},
		{Keyboard{Down: true}, native.EventKeyDown},
		{Keyboard{}, native.EventKeyUp},
		{MouseButton{Down: true}, native.EventMouseButtonDown},
		{GamepadButton{}, native.EventGamepadButtonUp},
		{User{}, native.EventUser},
	}
	for _, tt := range tests {
		raw, err := Encode(tt.ev)
		require.NoError(t, err)
		assert.Equal(t, tt.want, raw.Type(), "%T", tt.ev)
	}
}

func TestPushUnsupported(t *testing.T) {
	tr, lib := newTranslator(t, nil)

	for _, ev := range []Event{
		Generic{Common: Common{Type: 0x7777}},
		GamepadDevice{Common: Common{Type: native.EventGamepadAdded}, Which: 1},
		AudioDevice{Common: Common{Type: native.EventAudioDeviceRemoved}, Which: 2},
	} {
		err := tr.Push(ev)
		assert.True(t, errors.Is(err, errors.ErrUnsupportedEventKind), "%T", ev)
	}
	assert.Zero(t, lib.Calls("PushEvent"))
}

func TestPushMismatchedType(t *testing.T) {
	_, err := Encode(Keyboard{Common: Common{Type: native.EventQuit}})
	assert.True(t, errors.Is(err, errors.ErrArgument))
	_, err = Encode(Window{})
	assert.True(t, errors.Is(err, errors.ErrArgument))
}

func TestPushNativeFailure(t *testing.T) {
	tr, lib := newTranslator(t, nil)
	lib.FailNext("PushEvent", "Event queue is full")
	err := tr.Push(Quit{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNative))
	assert.Contains(t, err.Error(), "Event queue is full")
}

func TestGamepadHotplugEvent(t *testing.T) {
	ids := fakeIDs{gamepads: map[uint32]resource.Handle{}}
	tr, lib := newTranslator(t, ids)

	id := lib.ConnectGamepad("Pad")
	ids.gamepads[id] = 0x5000001

	ev, ok, err := tr.PollNext()
	require.NoError(t, err)
	require.True(t, ok)
	dev, isDev := ev.(GamepadDevice)
	require.True(t, isDev)
	assert.Equal(t, id, dev.Which)
	assert.Equal(t, resource.Handle(0x5000001), dev.Gamepad)
	assert.Equal(t, "gamepad-added", Name(dev.Type))
}

func TestWaitNext(t *testing.T) {
	tr, _ := newTranslator(t, nil)

	start := time.Now()
	ev, ok, err := tr.WaitNext(context.Background(), 30)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, ev)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = tr.Push(User{Code: 1})
	}()
	ev, ok, err = tr.WaitNext(context.Background(), 2000)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int32(1), ev.(User).Code)
}

func TestWaitNextHonorsContext(t *testing.T) {
	tr, _ := newTranslator(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, ok, err := tr.WaitNext(ctx, -1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFlushAndHas(t *testing.T) {
	tr, _ := newTranslator(t, nil)
	require.NoError(t, tr.Push(Keyboard{Down: true}))
	require.NoError(t, tr.Push(Quit{}))

	assert.True(t, tr.HasEvent(native.EventKeyDown))
	tr.FlushEvents(native.EventKeyDown, native.EventKeyUp)
	assert.False(t, tr.HasEvent(native.EventKeyDown))
	assert.True(t, tr.HasEvent(native.EventQuit))
	require.NoError(t, tr.PumpEvents())
}

func TestDescribeParseJSON(t *testing.T) {
	ev := Keyboard{
		Common:   Common{Type: native.EventKeyDown, Timestamp: 99},
		Window:   0x1000001,
		WindowID: 1,
		Key:      'q',
		Mod:      native.KeymodLCtrl,
		Down:     true,
	}
	desc, err := Describe(ev)
	require.NoError(t, err)
	assert.Equal(t, "key-down", desc["type"])
	assert.Equal(t, uint64(0x1000001), desc["window"])

	data, err := json.Marshal(desc)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	back, err := Parse(decoded)
	require.NoError(t, err)
	assert.Equal(t, ev, back)
}

func TestParsePartial(t *testing.T) {
	ev, err := Parse(map[string]any{"type": "user", "code": float64(7)})
	require.NoError(t, err)
	assert.Equal(t, User{Common: Common{Type: native.EventUser}, Code: 7}, ev)

	ev, err = Parse(map[string]any{"type": float64(native.EventUser + 1), "window-id": float64(2)})
	require.NoError(t, err)
	u := ev.(User)
	assert.Equal(t, native.EventUser+1, u.Type)
	assert.Equal(t, uint32(2), u.WindowID)
	assert.Zero(t, u.Code)

	_, err = Parse(map[string]any{"type": "gamepad-added"})
	assert.True(t, errors.Is(err, errors.ErrUnsupportedEventKind))

	_, err = Parse(map[string]any{"type": "quit", "bogus": 1})
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))

	_, err = Parse(map[string]any{"type": "nope"})
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))
}
