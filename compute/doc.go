// Package compute runs pure functions away from the frame loop.
//
// A [Bridge] is bound to one function at construction. With isolation
// enabled (the default) it owns a dedicated worker goroutine; payloads and
// results cross the boundary as msgpack-encoded copies, so the worker never
// shares memory with the caller. Each request carries a correlation id and
// resolves exactly one [Future].
//
// Without isolation the function runs synchronously inside Submit and the
// returned future is already settled. Callers get the same Future API on
// both paths and must not assume deferral.
//
// A failure inside the function (returned error or panic) rejects the
// future with a [*Error] carrying the message. The bridge never retries;
// falling back to an in-process computation is the caller's choice.
//
// Close tears the worker down. Requests still in flight are abandoned:
// their futures never settle, and replies that arrive afterwards are
// dropped.
package compute
