// Package errors provides structured error types for the sdl-bridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the failing function, the offending parameter index,
// a field path into structured arguments, and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseArgument, errors.KindArgument).
//		Function("CreateWindow").
//		Param(1).
//		Detail("expected u32").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidHandle(h, "handle retired")
//	err := errors.Native("CreateRenderer", msg)
//
// Each kind has an exported sentinel for matching:
//
//	if errors.Is(err, errors.ErrInvalidHandle) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
