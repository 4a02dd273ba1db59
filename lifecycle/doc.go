// Package lifecycle owns native resources on behalf of bridge callers.
//
// Every create goes through the same sequence: native create, failure
// check, handle registration, and on registration failure an immediate
// native destroy so nothing leaks. Every destroy runs children first
// (renderers of a window, GPU objects of a device), drops bindings, calls
// the native destructor and finally retires the handle.
//
// A Manager also tracks process-wide initialization. Init is cumulative;
// Quit tears down every live resource before shutting the library down.
package lifecycle
