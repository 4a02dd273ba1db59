// Package resource issues and validates the opaque handles that stand in for
// native SDL pointers and device IDs.
//
// Callers of the bridge never see a native address. Every creation call
// registers the new address and hands out a Handle; every call that takes a
// handle resolves it here first:
//
//	reg := resource.NewRegistry()
//
//	h, err := reg.Register(resource.KindWindow, addr)
//	addr, err := reg.ResolveKind(h, resource.KindWindow)
//	err = reg.Retire(h) // h is now invalid forever
//
// # Generations
//
// Each (kind, address) pair owns a slot with a generation counter. Retiring
// a handle bumps nothing until the address is registered again, at which
// point the slot's generation increases, so a handle issued before the
// retirement can never match again even when the native allocator reuses
// the address:
//
//	h1, _ := reg.Register(resource.KindWindow, 0x1000)
//	reg.Retire(h1)
//	h2, _ := reg.Register(resource.KindWindow, 0x1000)
//	// h2.Generation() > h1.Generation(); Resolve(h1) fails
//
// A slot whose generation reaches MaxGeneration is retired permanently.
//
// # Handle Encoding
//
// Handles fit in 53 bits, so they round-trip through float64 (JSON numbers,
// JavaScript hosts) without loss.
//
// # Observers
//
// Subscribe to registration and retirement notifications. Table is an
// observer that keeps per-handle metadata and drops it on retirement:
//
//	meta := resource.NewTable[*record](nil)
//	meta.Attach(reg)
//
// # Concurrency
//
// Registry and Table are safe for concurrent use. Observers run after the
// registry lock is released.
package resource
