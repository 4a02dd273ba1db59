package sim

import (
	"encoding/binary"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/sdl-bridge/affinity"
	"github.com/wippyai/sdl-bridge/native"
)

func initialized(t *testing.T, flags uint32) *Library {
	t.Helper()
	s := New()
	require.True(t, s.Init(flags))
	return s
}

func TestInitExpandsDependencies(t *testing.T) {
	s := initialized(t, native.InitGamepad)
	assert.Equal(t, native.InitGamepad|native.InitJoystick|native.InitEvents, s.WasInit(0))
	require.True(t, s.Init(native.InitVideo))
	assert.NotZero(t, s.WasInit(native.InitVideo))
	assert.NotZero(t, s.WasInit(native.InitGamepad))

	s.Quit()
	assert.Zero(t, s.WasInit(0))
}

func TestCreateWindowRequiresVideo(t *testing.T) {
	s := New()
	assert.Zero(t, s.CreateWindow("w", 640, 480, 0))
	assert.Contains(t, s.GetError(), "Video")
}

func TestAddressesAreReused(t *testing.T) {
	s := initialized(t, native.InitVideo)
	a := s.CreateWindow("a", 10, 10, 0)
	require.NotZero(t, a)
	s.DestroyWindow(a)
	b := s.CreateWindow("b", 10, 10, 0)
	assert.Equal(t, a, b)
}

func TestDestroyWindowFreesRenderer(t *testing.T) {
	s := initialized(t, native.InitVideo)
	win := s.CreateWindow("w", 10, 10, 0)
	r := s.CreateRenderer(win, "")
	require.NotZero(t, r)
	assert.Zero(t, s.CreateRenderer(win, ""))
	assert.Equal(t, "Renderer already associated with window", s.GetError())

	s.DestroyWindow(win)
	assert.Zero(t, s.Live())
	assert.False(t, s.SetRenderDrawColor(r, native.Color{R: 1}))
}

func TestFailNextIsOneShot(t *testing.T) {
	s := initialized(t, native.InitVideo)
	s.FailNext("CreateWindow", "Out of memory")
	assert.Zero(t, s.CreateWindow("w", 10, 10, 0))
	assert.Equal(t, "Out of memory", s.GetError())
	assert.NotZero(t, s.CreateWindow("w", 10, 10, 0))
	assert.Equal(t, 2, s.Calls("CreateWindow"))
}

func TestErrorIsPerThread(t *testing.T) {
	if !affinity.Supported() {
		t.Skip("thread IDs not available on this platform")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	s := New()
	s.FailNext("Init", "main thread failure")
	require.False(t, s.Init(native.InitVideo))

	var wg sync.WaitGroup
	var other string
	wg.Add(1)
	go func() {
		defer wg.Done()
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		other = s.GetError()
	}()
	wg.Wait()

	assert.Empty(t, other)
}

func TestAudioStreamScenario(t *testing.T) {
	s := initialized(t, native.InitAudio)
	spec := native.AudioSpec{Format: native.AudioS16, Channels: 2, Freq: 44100}

	dev := s.OpenAudioDevice(native.AudioDeviceDefaultPlayback, &spec)
	require.NotZero(t, dev)
	st := s.CreateAudioStream(&spec, &spec)
	require.NotZero(t, st)
	require.True(t, s.BindAudioStream(dev, st))
	assert.False(t, s.BindAudioStream(dev, st))

	require.True(t, s.PutAudioStreamData(st, make([]byte, 4096)))
	assert.Equal(t, int32(4096), s.GetAudioStreamAvailable(st))
	assert.False(t, s.PutAudioStreamData(st, make([]byte, 3)))

	buf := make([]byte, 1000)
	assert.Equal(t, int32(1000), s.GetAudioStreamData(st, buf))
	assert.Equal(t, int32(3096), s.GetAudioStreamQueued(st))

	s.CloseAudioDevice(dev)
	assert.Zero(t, s.GetAudioStreamDevice(st))
}

func TestAudioStreamConversionSize(t *testing.T) {
	s := initialized(t, native.InitAudio)
	src := native.AudioSpec{Format: native.AudioS16, Channels: 2, Freq: 44100}
	dst := native.AudioSpec{Format: native.AudioF32, Channels: 2, Freq: 44100}
	st := s.CreateAudioStream(&src, &dst)
	require.NotZero(t, st)
	require.True(t, s.PutAudioStreamData(st, make([]byte, 400)))
	assert.Equal(t, int32(800), s.GetAudioStreamAvailable(st))
}

func TestRunAudioCallbacks(t *testing.T) {
	s := initialized(t, native.InitAudio)
	dev := s.OpenAudioDevice(native.AudioDeviceDefaultPlayback, nil)
	require.NotZero(t, dev)

	var kept []float32
	var copied []float32
	require.True(t, s.SetAudioPostmixCallback(dev, func(_ native.AudioSpec, samples []float32) {
		kept = samples
		copied = append([]float32(nil), samples...)
	}))
	s.RunAudio(16)

	require.Len(t, copied, 32)
	assert.Equal(t, float32(0.01), copied[1])
	assert.Equal(t, float32(-1), kept[1])
}

func TestEventQueue(t *testing.T) {
	s := initialized(t, native.InitEvents)
	assert.False(t, s.PollEvent(nil))

	var ev native.RawEvent
	binary.LittleEndian.PutUint32(ev[0:], native.EventUser)
	require.True(t, s.PushEvent(&ev))
	assert.True(t, s.HasEvent(native.EventUser))
	assert.True(t, s.PollEvent(nil))

	var out native.RawEvent
	require.True(t, s.PollEvent(&out))
	assert.Equal(t, native.EventUser, out.Type())
	assert.NotZero(t, out.Timestamp())
	assert.False(t, s.PollEvent(&out))
}

func TestWaitEventTimeout(t *testing.T) {
	s := initialized(t, native.InitEvents)
	var ev native.RawEvent

	start := time.Now()
	assert.False(t, s.WaitEventTimeout(&ev, 20))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	go func() {
		time.Sleep(5 * time.Millisecond)
		var q native.RawEvent
		binary.LittleEndian.PutUint32(q[0:], native.EventQuit)
		s.PushEvent(&q)
	}()
	require.True(t, s.WaitEventTimeout(&ev, 1000))
	assert.Equal(t, native.EventQuit, ev.Type())
}

func TestFlushEvents(t *testing.T) {
	s := initialized(t, native.InitEvents)
	for _, typ := range []uint32{native.EventQuit, native.EventKeyDown, native.EventUser} {
		var ev native.RawEvent
		binary.LittleEndian.PutUint32(ev[0:], typ)
		require.True(t, s.PushEvent(&ev))
	}
	s.FlushEvents(native.EventKeyDown, native.EventKeyUp)
	assert.False(t, s.HasEvent(native.EventKeyDown))
	assert.True(t, s.HasEvent(native.EventQuit))
	assert.True(t, s.HasEvent(native.EventUser))
}

func TestGamepadHotplug(t *testing.T) {
	s := initialized(t, native.InitGamepad)
	id := s.ConnectGamepad("Pad")
	assert.True(t, s.HasEvent(native.EventGamepadAdded))

	g := s.OpenGamepad(id)
	require.NotZero(t, g)
	assert.Equal(t, g, s.OpenGamepad(id))

	s.SetGamepadButton(id, 0, true)
	s.SetGamepadAxis(id, 1, -200)
	assert.True(t, s.GetGamepadButton(g, 0))
	assert.Equal(t, int16(-200), s.GetGamepadAxis(g, 1))

	s.DisconnectGamepad(id)
	_, ok := s.GetGamepadName(g)
	assert.False(t, ok)
	assert.Equal(t, "Gamepad disconnected", s.GetError())
	s.CloseGamepad(g)
	assert.Zero(t, s.Live())
}

func TestGPUDevice(t *testing.T) {
	s := initialized(t, native.InitVideo)
	assert.Zero(t, s.CreateGPUDevice(native.GPUShaderFormatDXIL, false, ""))

	d := s.CreateGPUDevice(native.GPUShaderFormatSPIRV, true, "")
	require.NotZero(t, d)
	driver, ok := s.GetGPUDeviceDriver(d)
	require.True(t, ok)
	assert.Equal(t, "vulkan", driver)

	win := s.CreateWindow("w", 10, 10, 0)
	require.True(t, s.ClaimWindowForGPUDevice(d, win))
	assert.False(t, s.ClaimWindowForGPUDevice(d, win))

	buf := s.CreateGPUBuffer(d, &native.GPUBufferCreateInfo{Usage: native.GPUBufferUsageVertex, Size: 64})
	require.NotZero(t, buf)
	s.SetGPUBufferName(d, buf, "verts")
	assert.Equal(t, "verts", s.BufferName(buf))
	assert.Zero(t, s.CreateGPUBuffer(d, &native.GPUBufferCreateInfo{}))

	cb := s.AcquireGPUCommandBuffer(d)
	require.NotZero(t, cb)
	require.True(t, s.SubmitGPUCommandBuffer(cb))
	assert.False(t, s.CancelGPUCommandBuffer(cb))

	s.ReleaseGPUBuffer(d, buf)
	s.ReleaseWindowFromGPUDevice(d, win)
	s.DestroyWindow(win)
	s.DestroyGPUDevice(d)
	assert.Zero(t, s.Live())
}
