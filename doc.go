// Package sdlbridge exposes SDL3 to callers that cannot hold native
// pointers: dynamic Go code calling functions by name and WebAssembly
// guests.
//
// Native windows, renderers, audio devices, streams, gamepads and GPU
// objects never leave the bridge. Callers receive generation-stamped
// handles instead; a handle whose resource was destroyed, or a handle of
// the wrong kind, fails with an invalid-handle error and never reaches the
// native library. Events, audio specs and byte buffers are converted to
// plain values in both directions.
//
// # Architecture Overview
//
//	sdlbridge/           Bridge facade wiring the components below
//	├── native/          Native library interface, constants, failure conventions
//	│   ├── sim/         Pure Go simulated SDL3 for tests and headless use
//	│   └── sdl3/        cgo binding to the system SDL3 (build tag sdl3)
//	├── resource/        Generation-stamped handle registry
//	├── lifecycle/       Ownership, cascades, bindings and rollback
//	├── events/          Event union decoding, encoding and queue access
//	├── marshal/         WIT-schema value conversion
//	├── dispatch/        Function table and error mapping
//	├── affinity/        Owning-thread guard
//	├── errors/          Structured error types
//	└── wasmhost/        wazero host module for guests
//
// # Quick Start
//
//	runtime.LockOSThread()
//
//	b, err := sdlbridge.New(sdlbridge.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	if _, err := b.Call(ctx, "Init", native.InitVideo); err != nil {
//	    log.Fatal(err)
//	}
//	win, err := b.Call(ctx, "CreateWindow", "demo", 640, 480, 0)
//	ren, err := b.Call(ctx, "CreateRenderer", win, nil)
//	_, err = b.Call(ctx, "SetRenderDrawColor", ren, 0, 0, 0, 255)
//
// # Threading
//
// The thread that performs the first successful Init owns window, event and
// GPU calls. Pin that goroutine with runtime.LockOSThread. Audio calls may
// come from any thread.
package sdlbridge
