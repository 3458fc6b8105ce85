// Package entity provides normalized, immutable entity collections.
//
// # Overview
//
// A Collection stores entities by id and keeps a separate, ordered id slice.
// An Adapter knows how to read an entity's id, how to order entities and how
// to merge an incoming entity into an existing one. All write operations live
// on the Adapter and return a new Collection:
//
//	posts := entity.NewAdapter(func(p api.Post) string { return p.ID },
//		entity.WithComparer(func(a, b api.Post) int { return strings.Compare(b.Date, a.Date) }),
//	)
//	c := posts.Empty()
//	c = posts.UpsertMany(c, fetched)
//	for _, p := range c.All() {
//		...
//	}
//
// # Invariants
//
//   - The id slice is always a permutation of the map keys; no id appears twice.
//   - With a comparer, the id slice is sorted by it, ties broken by id.
//   - An id never changes once stored. Patches that change it are dropped.
//   - Operations that change nothing return the input pointer.
//
// # Absent ids
//
// UpdateOne, RemoveOne and IncrementField treat an absent id as a silent
// no-op. Network replies can arrive out of order, and a reply for an entity
// the client no longer holds should not be an error.
//
// # Concurrency
//
// Collections are immutable and safe to share between goroutines. Callers
// that hold a "current" collection must serialize replacing it; see
// internal/state.
package entity
