// Package syncer tracks the lifecycle of remote fetches and fences out stale
// completions.
//
// # Overview
//
// A Tracker is a small value-typed state machine (idle, loading, succeeded,
// failed) that lives inside an immutable application state. A Controller
// pairs a Tracker with a fetch function and an apply function, and runs the
// three phases of a request against a store:
//
//	Request()          tracker -> loading, new ticket issued
//	fetch(ctx, state)  outside any lock
//	Resolve(ticket)    data applied, tracker -> succeeded   (if ticket current)
//	Reject(ticket)     error recorded, tracker -> failed     (if ticket current)
//
// # Fencing
//
// Every Request issues a ticket one higher than the last. Only the latest
// ticket may complete a request. A response for an older ticket is dropped
// without touching state, so a slow reply can never overwrite fresher data or
// pull the tracker out of a newer loading phase.
//
// # Overlap policy
//
// Requests are never refused. A Request while loading supersedes the
// in-flight one. Callers that want single-flight behavior check
// Tracker.Loading before calling.
//
// # Errors
//
// Fetch errors are recorded in the Tracker and returned in the Outcome for
// display. They are not returned as Go errors. There is no retry; callers
// issue another Sync.
package syncer
