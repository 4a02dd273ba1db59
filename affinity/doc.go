// Package affinity records which OS thread owns the native library and
// rejects affine calls made from any other thread.
//
// SDL requires window, renderer and event functions to run on the thread
// that initialized video. Goroutines migrate between threads, so callers
// that own SDL must pin themselves with runtime.LockOSThread before the
// first Init. The guard only compares thread IDs; it never switches
// threads for the caller.
//
// Thread IDs are available on Linux. Elsewhere Current returns 0 and the
// guard accepts every caller.
package affinity
