// Package state holds the client's application state and its selectors.
//
// # Overview
//
// This package implements the single store shared by the board service, the
// background poller and the UI. It is the coordination point where fetch
// results meet rendering.
//
// # Architecture
//
//	Writers (board, poller):          Readers (UI):
//	┌────────────────────┐           ┌──────────────────────┐
//	│ Controller.Sync()  │           │                      │
//	│        ↓           │           │                      │
//	│ store.Update(fn)   │──────────→│ store.Snapshot()     │
//	│   (copy, apply,    │  (mutex)  │        ↓             │
//	│    publish)        │           │ SelectAllPosts(snap) │
//	└────────────────────┘           └──────────────────────┘
//
// # Core Types
//
// State:
//   - Immutable snapshot: three entity collections plus one sync tracker per
//     remote resource
//   - Version increases by one per published transition
//
// Store:
//   - Holds the current *State behind a sync.RWMutex
//   - Update copies the state, runs a transition on the copy and publishes
//     the copy only when the transition reports a change
//
// # Update Semantics
//
// Transitions are pure functions of the copied state. Nothing is ever
// modified in place, so a *State handed out by Snapshot stays valid and
// unchanged forever. That gives the UI torn-free reads without holding a lock
// while rendering, and it makes pointer identity a reliable change signal.
//
// # Selectors
//
// Selectors are memoized with internal/memo on the collection pointers they
// read. Repeated calls against an unchanged collection return the same slice
// without recomputing. Callers must treat returned slices as read-only.
//
// # Testing Considerations
//
// The Store is safe to use as a zero value; the first Snapshot or Update
// installs an empty state. NewStore does the same eagerly.
package state
