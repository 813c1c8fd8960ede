// Package coordinator runs operations off the caller's path.
//
// Every Dispatch returns a Handle. Within a category at most one handle is
// live: dispatching again cancels the previous handle's context, moves it to
// Cancelled straight away and guarantees its result is dropped. The
// coordinator is the only writer of handle state, so a job that finishes
// after being superseded cannot overwrite the Cancelled transition.
//
//	Idle -> Running -> Completed | Cancelled | Failed
//
// Callers either block on Handle.Wait (or the typed Await) or register a
// Listener, which sees exactly one Event per handle.
package coordinator
