// Package sim is an in-process stand-in for the SDL3 library.
//
// It implements native.Library with the behaviors the bridge depends on:
//
//   - addresses are handed out like a heap allocator and reused LIFO after
//     free, so stale handles meet live addresses
//   - the last-error string is per OS thread and overwritten by every
//     failing call
//   - events live in a bounded queue of raw 128-byte unions
//   - audio streams queue bytes and report sizes converted between specs
//   - logical audio devices get fresh IDs on every open
//
// Tests steer it with FailNext (inject a failure), Calls (count native
// calls), ConnectGamepad and RunAudio (run one mixing pass on a separate
// goroutine, the way SDL's audio thread would).
//
// Nothing is rendered and no sound is produced.
package sim
