package entity

import (
	"slices"
	"strings"
)

// Adapter holds the per-type configuration of a collection: how to read an
// entity's id, how to order entities, and how to merge an incoming entity
// into an existing one on upsert.
type Adapter[T any] struct {
	id      func(T) string
	compare func(a, b T) int
	merge   func(existing, incoming T) T
}

// Option configures an Adapter.
type Option[T any] func(*Adapter[T])

// WithComparer orders the collection by compare. Ties are broken by id so the
// order is total. Without a comparer entities keep insertion order.
func WithComparer[T any](compare func(a, b T) int) Option[T] {
	return func(a *Adapter[T]) {
		a.compare = compare
	}
}

// WithMerge sets how UpsertMany combines an existing entity with an incoming
// one. The default replaces the existing entity.
func WithMerge[T any](merge func(existing, incoming T) T) Option[T] {
	return func(a *Adapter[T]) {
		a.merge = merge
	}
}

// NewAdapter builds an Adapter. id must return a non-empty string for every
// entity that should be stored; entities with an empty id are ignored.
func NewAdapter[T any](id func(T) string, opts ...Option[T]) *Adapter[T] {
	a := &Adapter[T]{
		id: id,
		merge: func(_, incoming T) T {
			return incoming
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Empty returns an empty collection.
func (a *Adapter[T]) Empty() *Collection[T] {
	return &Collection[T]{entities: map[string]T{}}
}

// AddOne inserts e unless its id is already present.
func (a *Adapter[T]) AddOne(c *Collection[T], e T) *Collection[T] {
	return a.AddMany(c, []T{e})
}

// AddMany inserts every entity whose id is not already present. Existing
// entities are left untouched.
func (a *Adapter[T]) AddMany(c *Collection[T], items []T) *Collection[T] {
	var next *Collection[T]
	for _, item := range items {
		id := a.id(item)
		if id == "" || c.Has(id) {
			continue
		}
		if next == nil {
			next = c.clone()
		}
		if _, dup := next.entities[id]; dup {
			continue
		}
		next.entities[id] = item
		next.ids = append(next.ids, id)
	}
	if next == nil {
		return c
	}
	a.sort(next)
	return next
}

// SetAll replaces the whole collection with items.
func (a *Adapter[T]) SetAll(c *Collection[T], items []T) *Collection[T] {
	next := a.Empty()
	for _, item := range items {
		id := a.id(item)
		if id == "" {
			continue
		}
		if _, dup := next.entities[id]; !dup {
			next.ids = append(next.ids, id)
		}
		next.entities[id] = item
	}
	a.sort(next)
	return next
}

// UpsertOne inserts e, or merges it into the entity with the same id.
func (a *Adapter[T]) UpsertOne(c *Collection[T], e T) *Collection[T] {
	return a.UpsertMany(c, []T{e})
}

// UpsertMany inserts each entity whose id is absent and merges the rest into
// the existing entities, then re-derives the order. An empty input returns c.
func (a *Adapter[T]) UpsertMany(c *Collection[T], items []T) *Collection[T] {
	var next *Collection[T]
	for _, item := range items {
		id := a.id(item)
		if id == "" {
			continue
		}
		if next == nil {
			next = c.clone()
		}
		if existing, ok := next.entities[id]; ok {
			next.entities[id] = a.merge(existing, item)
			continue
		}
		next.entities[id] = item
		next.ids = append(next.ids, id)
	}
	if next == nil {
		return c
	}
	a.sort(next)
	return next
}

// UpdateOne applies patch to the entity with the given id. An absent id is a
// silent no-op, as is a patch that tries to change the id.
func (a *Adapter[T]) UpdateOne(c *Collection[T], id string, patch func(T) T) *Collection[T] {
	existing, ok := c.Get(id)
	if !ok {
		return c
	}
	return a.replace(c, id, patch(existing))
}

// UpdateAll applies patch to every entity. Patches that change an id are
// discarded for that entity.
func (a *Adapter[T]) UpdateAll(c *Collection[T], patch func(T) T) *Collection[T] {
	if c.Len() == 0 {
		return c
	}
	next := c.clone()
	for id, e := range next.entities {
		updated := patch(e)
		if a.id(updated) != id {
			continue
		}
		next.entities[id] = updated
	}
	a.sort(next)
	return next
}

// RemoveOne deletes the entity with the given id.
func (a *Adapter[T]) RemoveOne(c *Collection[T], id string) *Collection[T] {
	if !c.Has(id) {
		return c
	}
	next := c.clone()
	delete(next.entities, id)
	next.ids = slices.DeleteFunc(next.ids, func(v string) bool { return v == id })
	return next
}

func (a *Adapter[T]) replace(c *Collection[T], id string, updated T) *Collection[T] {
	if a.id(updated) != id {
		return c
	}
	next := c.clone()
	next.entities[id] = updated
	a.sort(next)
	return next
}

func (a *Adapter[T]) sort(c *Collection[T]) {
	if a.compare == nil {
		return
	}
	slices.SortStableFunc(c.ids, func(x, y string) int {
		if r := a.compare(c.entities[x], c.entities[y]); r != 0 {
			return r
		}
		return strings.Compare(x, y)
	})
}

// Incrementer is implemented by entities that carry named counters.
// Increment returns a copy with the counter raised by one, and false when the
// entity has no such counter. It must not modify the receiver.
type Incrementer[T any] interface {
	Increment(field string) (T, bool)
}

// IncrementField raises the named counter on the entity with the given id by
// one. It is a no-op when the id or the counter is absent.
func IncrementField[T Incrementer[T]](a *Adapter[T], c *Collection[T], id, field string) *Collection[T] {
	existing, ok := c.Get(id)
	if !ok {
		return c
	}
	updated, ok := existing.Increment(field)
	if !ok {
		return c
	}
	return a.replace(c, id, updated)
}
