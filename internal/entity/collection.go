package entity

import "slices"

// Collection is an immutable, normalized set of entities keyed by id, plus the
// ids in sorted order. The zero value and nil are both an empty collection.
//
// Collections are never mutated after construction. Adapter operations return
// a new *Collection, or the same pointer when the operation changed nothing,
// so pointer equality doubles as a cheap "unchanged" check for selectors.
type Collection[T any] struct {
	ids      []string
	entities map[string]T
}

// Len returns the number of entities.
func (c *Collection[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ids)
}

// Get returns the entity with the given id. ok is false when the id is absent.
func (c *Collection[T]) Get(id string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	e, ok := c.entities[id]
	return e, ok
}

// Has reports whether id is present.
func (c *Collection[T]) Has(id string) bool {
	_, ok := c.Get(id)
	return ok
}

// IDs returns a copy of the ordered id sequence.
func (c *Collection[T]) IDs() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.ids)
}

// All returns the entities in order. The returned slice is freshly allocated.
func (c *Collection[T]) All() []T {
	if c == nil || len(c.ids) == 0 {
		return nil
	}
	out := make([]T, len(c.ids))
	for i, id := range c.ids {
		out[i] = c.entities[id]
	}
	return out
}

func (c *Collection[T]) clone() *Collection[T] {
	next := &Collection[T]{
		entities: make(map[string]T, c.Len()+1),
	}
	if c == nil {
		return next
	}
	next.ids = slices.Clone(c.ids)
	for id, e := range c.entities {
		next.entities[id] = e
	}
	return next
}
