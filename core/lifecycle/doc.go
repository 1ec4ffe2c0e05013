// Package lifecycle implements the state machine gating server start and stop.
//
// The Controller is the single owner of the engine instance and its database
// handle. It moves through Stopped -> Starting -> Running -> Stopping ->
// Stopped, with any failure during Starting landing in Failed. A Failed
// state is reported exactly once (by the Status read or Stop that observes
// it) and then settles back to Stopped.
//
// # Concurrency
//
// Mutating transitions are serialized through a try-lock: while one Start or
// Stop is in flight, a second mutating command returns ErrOperationInProgress
// immediately instead of queueing, keeping the command boundary synchronous
// and bounded in latency. Status is a pure read that never waits on a
// transition.
package lifecycle
