package lifecycle

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/sdl-bridge/affinity"
	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/native/sim"
	"github.com/wippyai/sdl-bridge/resource"
)

// newManager returns an initialized manager. The test goroutine is locked
// to its thread because Init claims thread ownership.
func newManager(t *testing.T, flags uint32) (*Manager, *sim.Library) {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)

	lib := sim.New()
	m := NewManager(lib, resource.NewRegistry(), nil)
	require.NoError(t, m.Init(flags))
	t.Cleanup(func() { _ = m.Close() })
	return m, lib
}

func TestInitIsCumulative(t *testing.T) {
	m, lib := newManager(t, native.InitAudio)
	require.NoError(t, m.Init(native.InitVideo))
	assert.Equal(t, native.InitAudio|native.InitVideo|native.InitEvents, m.Initialized())
	assert.Equal(t, 2, lib.Calls("Init"))
}

func TestInitFailureCarriesNativeMessage(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	lib := sim.New()
	lib.FailNext("Init", "No available video device")
	m := NewManager(lib, resource.NewRegistry(), nil)

	err := m.Init(native.InitVideo)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNative))
	assert.Contains(t, err.Error(), "No available video device")
	assert.Zero(t, m.Initialized())
	assert.Zero(t, m.Guard().Owner())
}

func TestWindowCascadeDestroysRenderer(t *testing.T) {
	m, lib := newManager(t, native.InitVideo)

	win, err := m.CreateWindow("main", 640, 480, native.WindowResizable)
	require.NoError(t, err)
	ren, err := m.CreateRenderer(win, "")
	require.NoError(t, err)

	rec, err := m.Record(ren)
	require.NoError(t, err)
	assert.Equal(t, win, rec.Parent())

	got, err := m.WindowRenderer(win)
	require.NoError(t, err)
	assert.Equal(t, ren, got)

	require.NoError(t, m.DestroyWindow(win))
	assert.Zero(t, lib.Live())
	assert.Zero(t, m.Len())

	_, err = m.Resolve(ren, resource.KindRenderer)
	assert.True(t, errors.Is(err, errors.ErrInvalidHandle))

	before := lib.Calls("DestroyRenderer")
	err = m.DestroyRenderer(ren)
	assert.True(t, errors.Is(err, errors.ErrInvalidHandle))
	assert.Equal(t, before, lib.Calls("DestroyRenderer"))
}

func TestWindowByID(t *testing.T) {
	m, lib := newManager(t, native.InitVideo)

	win, err := m.CreateWindow("w", 10, 10, 0)
	require.NoError(t, err)
	rec, err := m.Record(win)
	require.NoError(t, err)

	addr, err := m.Resolve(win, resource.KindWindow)
	require.NoError(t, err)
	assert.Equal(t, lib.GetWindowID(addr), rec.ID)

	got, ok := m.WindowByID(rec.ID)
	require.True(t, ok)
	assert.Equal(t, win, got)

	require.NoError(t, m.DestroyWindow(win))
	_, ok = m.WindowByID(rec.ID)
	assert.False(t, ok)
}

func TestRegistrationFailureRollsBack(t *testing.T) {
	m, lib := newManager(t, native.InitVideo)

	// The simulator hands out this address first.
	_, err := m.Registry().Register(resource.KindWindow, 0x10000)
	require.NoError(t, err)

	_, err = m.CreateWindow("w", 10, 10, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDuplicateAddress))
	assert.Equal(t, 1, lib.Calls("DestroyWindow"))
	assert.Zero(t, lib.Live())
}

func TestCreateFailureReturnsNativeError(t *testing.T) {
	m, lib := newManager(t, native.InitVideo)
	lib.FailNext("CreateWindow", "Couldn't create window")

	_, err := m.CreateWindow("w", 10, 10, 0)
	require.Error(t, err)

	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errors.KindNative, e.Kind)
	assert.Equal(t, "CreateWindow", e.Function)
	assert.Equal(t, "Couldn't create window", e.Message())
	assert.Zero(t, m.Len())
}

func TestRendererOfUnknownWindow(t *testing.T) {
	m, lib := newManager(t, native.InitVideo)

	_, err := m.CreateRenderer(resource.Handle(12345), "")
	assert.True(t, errors.Is(err, errors.ErrInvalidHandle))
	assert.Zero(t, lib.Calls("CreateRenderer"))
}

func TestAudioScenario(t *testing.T) {
	m, lib := newManager(t, native.InitAudio)
	spec := native.AudioSpec{Format: native.AudioS16, Channels: 2, Freq: 44100}

	dev, err := m.OpenAudioDevice(native.AudioDeviceDefaultPlayback, &spec)
	require.NoError(t, err)
	stream, err := m.CreateAudioStream(&spec, &spec)
	require.NoError(t, err)
	require.NoError(t, m.BindStream(dev, stream))

	addr, err := m.Resolve(stream, resource.KindAudioStream)
	require.NoError(t, err)
	require.True(t, lib.PutAudioStreamData(addr, make([]byte, 4096)))

	avail := lib.GetAudioStreamAvailable(addr)
	assert.GreaterOrEqual(t, avail, int32(0))
	assert.LessOrEqual(t, avail, int32(4096))
}

func TestBindIsIdempotent(t *testing.T) {
	m, lib := newManager(t, native.InitAudio)
	spec := native.AudioSpec{Format: native.AudioF32, Channels: 2, Freq: 48000}

	dev, err := m.OpenAudioDevice(native.AudioDeviceDefaultPlayback, nil)
	require.NoError(t, err)
	stream, err := m.CreateAudioStream(&spec, &spec)
	require.NoError(t, err)

	require.NoError(t, m.UnbindStream(stream))
	assert.Zero(t, lib.Calls("UnbindAudioStream"))

	require.NoError(t, m.BindStream(dev, stream))
	require.NoError(t, m.BindStream(dev, stream))
	assert.Equal(t, 1, lib.Calls("BindAudioStream"))

	bound, err := m.StreamDevice(stream)
	require.NoError(t, err)
	assert.Equal(t, dev, bound)

	require.NoError(t, m.UnbindStream(stream))
	bound, err = m.StreamDevice(stream)
	require.NoError(t, err)
	assert.Zero(t, bound)
}

func TestBindMovesStream(t *testing.T) {
	m, lib := newManager(t, native.InitAudio)
	spec := native.AudioSpec{Format: native.AudioF32, Channels: 2, Freq: 48000}

	first, err := m.OpenAudioDevice(native.AudioDeviceDefaultPlayback, nil)
	require.NoError(t, err)
	second, err := m.OpenAudioDevice(native.AudioDeviceDefaultPlayback, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	stream, err := m.CreateAudioStream(&spec, &spec)
	require.NoError(t, err)
	require.NoError(t, m.BindStream(first, stream))
	require.NoError(t, m.BindStream(second, stream))

	bound, err := m.StreamDevice(stream)
	require.NoError(t, err)
	assert.Equal(t, second, bound)
	assert.Equal(t, 1, lib.Calls("UnbindAudioStream"))

	id, err := m.DeviceID(second)
	require.NoError(t, err)
	addr, err := m.Resolve(stream, resource.KindAudioStream)
	require.NoError(t, err)
	assert.Equal(t, id, lib.GetAudioStreamDevice(addr))
}

func TestFailedMoveKeepsBinding(t *testing.T) {
	m, lib := newManager(t, native.InitAudio)
	spec := native.AudioSpec{Format: native.AudioF32, Channels: 2, Freq: 48000}

	first, err := m.OpenAudioDevice(native.AudioDeviceDefaultPlayback, nil)
	require.NoError(t, err)
	second, err := m.OpenAudioDevice(native.AudioDeviceDefaultPlayback, nil)
	require.NoError(t, err)
	stream, err := m.CreateAudioStream(&spec, &spec)
	require.NoError(t, err)
	require.NoError(t, m.BindStream(first, stream))

	lib.FailNext("BindAudioStream", "Device is lost")
	err = m.BindStream(second, stream)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNative))
	assert.Contains(t, err.Error(), "Device is lost")

	bound, err := m.StreamDevice(stream)
	require.NoError(t, err)
	assert.Equal(t, first, bound)

	id, err := m.DeviceID(first)
	require.NoError(t, err)
	addr, err := m.Resolve(stream, resource.KindAudioStream)
	require.NoError(t, err)
	assert.Equal(t, id, lib.GetAudioStreamDevice(addr))

	rec, err := m.Record(first)
	require.NoError(t, err)
	assert.Contains(t, rec.attached, stream)
	rec, err = m.Record(second)
	require.NoError(t, err)
	assert.Empty(t, rec.attached)
}

func TestLeaseHoldsOffRetirement(t *testing.T) {
	m, _ := newManager(t, native.InitAudio)
	spec := native.AudioSpec{Format: native.AudioF32, Channels: 2, Freq: 48000}
	stream, err := m.CreateAudioStream(&spec, &spec)
	require.NoError(t, err)

	release := m.Lease()
	done := make(chan error, 1)
	go func() { done <- m.DestroyAudioStream(stream) }()
	select {
	case err := <-done:
		t.Fatalf("destroy finished under a lease: %v", err)
	case <-time.After(20 * time.Millisecond):
	}
	_, err = m.Resolve(stream, resource.KindAudioStream)
	require.NoError(t, err)

	release()
	require.NoError(t, <-done)
	err = m.With(stream, resource.KindAudioStream, func(native.Address) error {
		t.Fatal("ran on a retired handle")
		return nil
	})
	assert.True(t, errors.Is(err, errors.ErrInvalidHandle))
}

func TestCloseDeviceUnbindsStreams(t *testing.T) {
	m, _ := newManager(t, native.InitAudio)
	spec := native.AudioSpec{Format: native.AudioF32, Channels: 2, Freq: 48000}

	dev, err := m.OpenAudioDevice(native.AudioDeviceDefaultPlayback, nil)
	require.NoError(t, err)
	stream, err := m.CreateAudioStream(&spec, &spec)
	require.NoError(t, err)
	require.NoError(t, m.BindStream(dev, stream))
	id, err := m.DeviceID(dev)
	require.NoError(t, err)

	require.NoError(t, m.CloseAudioDevice(dev))

	bound, err := m.StreamDevice(stream)
	require.NoError(t, err)
	assert.Zero(t, bound)
	_, ok := m.AudioDeviceByID(id)
	assert.False(t, ok)

	require.NoError(t, m.DestroyAudioStream(stream))
	assert.Zero(t, m.Len())
}

func TestDestroyBoundStream(t *testing.T) {
	m, _ := newManager(t, native.InitAudio)
	spec := native.AudioSpec{Format: native.AudioF32, Channels: 2, Freq: 48000}

	dev, err := m.OpenAudioDevice(native.AudioDeviceDefaultPlayback, nil)
	require.NoError(t, err)
	stream, err := m.CreateAudioStream(&spec, &spec)
	require.NoError(t, err)
	require.NoError(t, m.BindStream(dev, stream))
	require.NoError(t, m.DestroyAudioStream(stream))

	rec, err := m.Record(dev)
	require.NoError(t, err)
	assert.Empty(t, rec.attached)
}

func TestPostmixCallbackGetsCopy(t *testing.T) {
	m, lib := newManager(t, native.InitAudio)

	dev, err := m.OpenAudioDevice(native.AudioDeviceDefaultPlayback, nil)
	require.NoError(t, err)

	var mu sync.Mutex
	var kept []float32
	var spec native.AudioSpec
	require.NoError(t, m.SetPostmixCallback(dev, func(s native.AudioSpec, samples []float32) {
		mu.Lock()
		defer mu.Unlock()
		spec = s
		kept = samples
	}))
	lib.RunAudio(8)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, kept, 16)
	assert.Equal(t, int32(2), spec.Channels)
	for _, v := range kept {
		assert.NotEqual(t, float32(-1), v)
	}
}

func TestStreamCallbackReportsHandle(t *testing.T) {
	m, lib := newManager(t, native.InitAudio)
	spec := native.AudioSpec{Format: native.AudioF32, Channels: 2, Freq: 48000}

	dev, err := m.OpenAudioDevice(native.AudioDeviceDefaultPlayback, nil)
	require.NoError(t, err)
	stream, err := m.CreateAudioStream(&spec, &spec)
	require.NoError(t, err)
	require.NoError(t, m.BindStream(dev, stream))

	var got resource.Handle
	var additional int32
	require.NoError(t, m.SetStreamGetCallback(stream, func(h resource.Handle, add, _ int32) {
		got = h
		additional = add
	}))
	lib.RunAudio(4)

	assert.Equal(t, stream, got)
	assert.Equal(t, int32(4*8), additional)
}

func TestGamepadOpenTwice(t *testing.T) {
	m, lib := newManager(t, native.InitGamepad)
	id := lib.ConnectGamepad("Test Pad")

	first, err := m.OpenGamepad(id)
	require.NoError(t, err)
	second, err := m.OpenGamepad(id)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, lib.Calls("OpenGamepad"))

	got, ok := m.GamepadByID(id)
	require.True(t, ok)
	assert.Equal(t, first, got)

	require.NoError(t, m.CloseGamepad(first))
	assert.Zero(t, lib.Live())

	_, err = m.OpenGamepad(9999)
	assert.True(t, errors.Is(err, errors.ErrNative))
}

func TestGPUDeviceCascade(t *testing.T) {
	m, lib := newManager(t, native.InitVideo)

	win, err := m.CreateWindow("w", 10, 10, 0)
	require.NoError(t, err)
	dev, err := m.CreateGPUDevice(native.GPUShaderFormatSPIRV, false, "")
	require.NoError(t, err)

	require.NoError(t, m.ClaimWindow(dev, win))
	require.NoError(t, m.ClaimWindow(dev, win))
	assert.Equal(t, 1, lib.Calls("ClaimWindowForGPUDevice"))

	buf, err := m.CreateGPUBuffer(dev, native.GPUBufferCreateInfo{Usage: native.GPUBufferUsageVertex, Size: 256})
	require.NoError(t, err)
	tex, err := m.CreateGPUTexture(dev, native.GPUTextureCreateInfo{Width: 4, Height: 4, LayerCountOrDepth: 1, NumLevels: 1})
	require.NoError(t, err)
	xfer, err := m.CreateGPUTransferBuffer(dev, native.GPUTransferBufferCreateInfo{Size: 64})
	require.NoError(t, err)
	cb, err := m.AcquireCommandBuffer(dev)
	require.NoError(t, err)

	devAddr, err := m.GPUParent(buf)
	require.NoError(t, err)
	got, err := m.Resolve(dev, resource.KindGPUDevice)
	require.NoError(t, err)
	assert.Equal(t, got, devAddr)

	require.NoError(t, m.DestroyGPUDevice(dev))
	for _, h := range []resource.Handle{buf, tex, xfer, cb, dev} {
		_, err := m.Resolve(h, h.Kind())
		assert.True(t, errors.Is(err, errors.ErrInvalidHandle), h.String())
	}
	assert.Equal(t, 1, lib.Calls("CancelGPUCommandBuffer"))

	rec, err := m.Record(win)
	require.NoError(t, err)
	assert.Zero(t, rec.ClaimedBy())
	assert.Equal(t, 1, lib.Live())
}

func TestDestroyClaimedWindow(t *testing.T) {
	m, lib := newManager(t, native.InitVideo)

	win, err := m.CreateWindow("w", 10, 10, 0)
	require.NoError(t, err)
	dev, err := m.CreateGPUDevice(native.GPUShaderFormatSPIRV, false, "")
	require.NoError(t, err)
	require.NoError(t, m.ClaimWindow(dev, win))

	require.NoError(t, m.DestroyWindow(win))
	assert.Equal(t, 1, lib.Calls("ReleaseWindowFromGPUDevice"))

	rec, err := m.Record(dev)
	require.NoError(t, err)
	assert.Empty(t, rec.attached)
	err = m.ReleaseWindow(dev, dev)
	assert.True(t, errors.Is(err, errors.ErrInvalidHandle))
}

func TestCommandBufferSubmitRetires(t *testing.T) {
	m, lib := newManager(t, native.InitVideo)

	dev, err := m.CreateGPUDevice(native.GPUShaderFormatSPIRV, false, "")
	require.NoError(t, err)
	cb, err := m.AcquireCommandBuffer(dev)
	require.NoError(t, err)

	require.NoError(t, m.SubmitCommandBuffer(cb))
	err = m.SubmitCommandBuffer(cb)
	assert.True(t, errors.Is(err, errors.ErrInvalidHandle))
	assert.Equal(t, 1, lib.Calls("SubmitGPUCommandBuffer"))

	rec, err := m.Record(dev)
	require.NoError(t, err)
	assert.Empty(t, rec.Children())
}

func TestReleaseGPUObjectKind(t *testing.T) {
	m, _ := newManager(t, native.InitVideo)

	dev, err := m.CreateGPUDevice(native.GPUShaderFormatSPIRV, false, "")
	require.NoError(t, err)
	err = m.ReleaseGPUObject(dev)
	assert.True(t, errors.Is(err, errors.ErrInvalidHandle))

	buf, err := m.CreateGPUBuffer(dev, native.GPUBufferCreateInfo{Size: 16})
	require.NoError(t, err)
	require.NoError(t, m.ReleaseGPUObject(buf))

	_, err = m.CreateGPUBuffer(dev, native.GPUBufferCreateInfo{})
	assert.True(t, errors.Is(err, errors.ErrNative))
}

func TestQuitInvalidatesEverything(t *testing.T) {
	m, lib := newManager(t, native.InitVideo|native.InitAudio|native.InitGamepad)

	win, err := m.CreateWindow("w", 10, 10, 0)
	require.NoError(t, err)
	ren, err := m.CreateRenderer(win, "software")
	require.NoError(t, err)
	dev, err := m.OpenAudioDevice(native.AudioDeviceDefaultPlayback, nil)
	require.NoError(t, err)
	spec := native.AudioSpec{Format: native.AudioF32, Channels: 2, Freq: 48000}
	stream, err := m.CreateAudioStream(&spec, &spec)
	require.NoError(t, err)
	require.NoError(t, m.BindStream(dev, stream))
	gpu, err := m.CreateGPUDevice(native.GPUShaderFormatSPIRV, false, "")
	require.NoError(t, err)
	require.NoError(t, m.ClaimWindow(gpu, win))
	pad, err := m.OpenGamepad(lib.ConnectGamepad("pad"))
	require.NoError(t, err)

	require.NoError(t, m.Quit())
	assert.Zero(t, lib.Live())
	assert.Zero(t, m.Registry().Len())
	assert.Zero(t, m.Initialized())
	for _, h := range []resource.Handle{win, ren, dev, stream, gpu, pad} {
		_, err := m.Resolve(h, h.Kind())
		assert.True(t, errors.Is(err, errors.ErrInvalidHandle), h.String())
	}

	require.NoError(t, m.Quit())
	assert.Equal(t, 1, lib.Calls("Quit"))
}

func TestAffinityViolationMakesNoNativeCall(t *testing.T) {
	if !affinity.Supported() {
		t.Skip("thread IDs not available on this platform")
	}
	m, lib := newManager(t, native.InitVideo)

	var err error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		_, err = m.CreateWindow("w", 10, 10, 0)
	}()
	wg.Wait()

	assert.True(t, errors.Is(err, errors.ErrThreadAffinity))
	assert.Zero(t, lib.Calls("CreateWindow"))
}
