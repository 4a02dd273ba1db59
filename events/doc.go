// Package events translates the native 128-byte event union into a closed
// set of typed Go values and back.
//
// Decoding is total: a discriminator the package does not know becomes a
// Generic event carrying the original type code, timestamp and raw bytes.
// Native IDs (window IDs, joystick IDs, audio device IDs) are mapped to
// bridge handles through a Resolver; IDs with no live handle decode to 0.
package events
