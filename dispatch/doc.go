// Package dispatch maps SDL function names to native calls.
//
// Each table entry declares its parameters as WIT schemas, its result
// schema, the native failure convention, whether it must run on the thread
// that initialized the library and which subsystems it needs. A call is
// processed in a fixed order:
//
//	arity and shape check    ArgumentError naming the parameter index
//	thread affinity          ThreadAffinityError before any native call
//	subsystem check          NotInitializedError
//	handle resolution        InvalidHandleError for stale or mistyped handles
//	native call              convention check, last-error read immediately
//	result encoding          caller-facing value
//
// Calls that create or destroy resources are routed through the lifecycle
// manager so ownership, cascades and rollback stay in one place.
package dispatch
