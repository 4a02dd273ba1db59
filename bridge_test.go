package sdlbridge

import (
	"context"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/sdl-bridge/affinity"
	"github.com/wippyai/sdl-bridge/dispatch"
	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/events"
	"github.com/wippyai/sdl-bridge/lifecycle"
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/native/sim"
)

func newBridge(t *testing.T, cfg Config) (*Bridge, *sim.Library) {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)

	lib := sim.New()
	if cfg.Library == nil {
		cfg.Library = lib
	}
	b, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b, lib
}

func TestBridgeCallRoundTrip(t *testing.T) {
	b, lib := newBridge(t, Config{})
	ctx := context.Background()

	_, err := b.Call(ctx, "Init", native.InitVideo)
	require.NoError(t, err)

	win, err := b.Call(ctx, "CreateWindow", "bridge", 320, 240, 0)
	require.NoError(t, err)
	ren, err := b.Call(ctx, "CreateRenderer", win, "software")
	require.NoError(t, err)

	_, err = b.Call(ctx, "RenderClear", ren)
	require.NoError(t, err)
	_, err = b.Call(ctx, "RenderPresent", ren)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Manager().Len())
	assert.Equal(t, 2, b.Registry().Len())

	require.NoError(t, b.Close())
	assert.Zero(t, lib.Live())
	assert.Zero(t, b.Registry().Len())

	_, err = b.Call(ctx, "GetTicks")
	assert.True(t, errors.Is(err, errors.ErrClosed))
	assert.NoError(t, b.Close())
}

func TestBridgeTypedAccess(t *testing.T) {
	b, _ := newBridge(t, Config{})
	require.NoError(t, b.Manager().Init(native.InitVideo))

	win, err := b.Manager().CreateWindow("typed", 100, 100, 0)
	require.NoError(t, err)
	id, err := b.Call(context.Background(), "GetWindowID", win)
	require.NoError(t, err)

	require.NoError(t, b.Events().Push(events.Window{
		Common:   events.Common{Type: native.EventWindowMoved},
		WindowID: id.(uint32),
		Data1:    10,
		Data2:    20,
	}))
	ev, ok, err := b.Events().PollNext()
	require.NoError(t, err)
	require.True(t, ok)

	we, ok := ev.(events.Window)
	require.True(t, ok)
	assert.Equal(t, win, we.Window)
	assert.Equal(t, int32(10), we.Data1)
}

func TestBridgeListsFunctionsAndConstants(t *testing.T) {
	b, _ := newBridge(t, Config{})

	names := make(map[string]bool)
	for _, e := range b.Functions() {
		names[e.Name] = true
	}
	for _, n := range []string{"Init", "CreateWindow", "OpenAudioDevice", "PollEvent", "CreateGPUDevice"} {
		assert.True(t, names[n], n)
	}
	assert.Equal(t, uint64(native.InitAudio), b.Constants()["INIT_AUDIO"])
}

func TestBridgeAffinityModes(t *testing.T) {
	if !affinity.Supported() {
		t.Skip("thread identity not available on this platform")
	}
	tests := []struct {
		mode    AffinityMode
		wantErr bool
	}{
		{AffinityEnforce, true},
		{AffinityOff, false},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			b, _ := newBridge(t, Config{Affinity: tt.mode})
			_, err := b.Call(context.Background(), "Init", native.InitVideo)
			require.NoError(t, err)

			var wg sync.WaitGroup
			var callErr error
			wg.Add(1)
			go func() {
				defer wg.Done()
				runtime.LockOSThread()
				defer runtime.UnlockOSThread()
				_, callErr = b.Call(context.Background(), "CreateWindow", "x", 1, 1, 0)
			}()
			wg.Wait()

			if tt.wantErr {
				assert.True(t, errors.Is(callErr, errors.ErrThreadAffinity))
			} else {
				assert.NoError(t, callErr)
			}
		})
	}
}

func TestBridgeRejectsUnknownAffinityMode(t *testing.T) {
	_, err := New(Config{Library: sim.New(), Affinity: AffinityMode(9)})
	assert.True(t, errors.Is(err, errors.ErrArgument))
}

func TestBridgeInstallsLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b, _ := newBridge(t, Config{Logger: zap.New(core)})

	_, err := b.Call(context.Background(), "Init", native.InitVideo)
	require.NoError(t, err)
	_, err = b.Call(context.Background(), "CreateWindow", "logged", 10, 10, 0)
	require.NoError(t, err)
	_, err = b.Call(context.Background(), "GetWindowTitle", 0)
	require.Error(t, err)

	assert.NotZero(t, logs.FilterLoggerName("lifecycle").Len())
	assert.NotZero(t, logs.FilterLoggerName("dispatch").FilterMessage("call failed").Len())
}

func TestLoggerIsProcessWide(t *testing.T) {
	firstCore, firstLogs := observer.New(zap.DebugLevel)
	first, _ := newBridge(t, Config{Logger: zap.New(firstCore)})
	secondCore, secondLogs := observer.New(zap.DebugLevel)
	newBridge(t, Config{Logger: zap.New(secondCore)})
	t.Cleanup(func() {
		lifecycle.SetLogger(nil)
		dispatch.SetLogger(nil)
	})

	_, err := first.Call(context.Background(), "GetWindowTitle", 0)
	require.Error(t, err)
	assert.Zero(t, firstLogs.FilterMessage("call failed").Len())
	assert.Equal(t, 1, secondLogs.FilterLoggerName("dispatch").FilterMessage("call failed").Len())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dispatch.SetLogger(zap.New(secondCore).Named("dispatch"))
			_, _ = first.Call(context.Background(), "GetTicks")
		}()
	}
	wg.Wait()
}

func TestDefaultLibraryFallsBackToSimulation(t *testing.T) {
	lib := DefaultLibrary()
	require.NotNil(t, lib)
	assert.NotEmpty(t, lib.GetPlatform())
}
