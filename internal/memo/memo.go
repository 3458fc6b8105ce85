// Package memo builds memoized selectors.
//
// A selector is split into an input function, which picks comparable values
// out of a state (usually pointers to immutable collections), and a result
// function, which computes the derived view. The result is recomputed only
// when the picked input, or the argument, differs by == from the previous
// call. Each selector caches exactly one entry.
package memo

import "sync"

// Select returns a selector that caches result(input(s)) on the value of
// input(s).
func Select[S any, In comparable, Out any](input func(S) In, result func(In) Out) func(S) Out {
	var (
		mu     sync.Mutex
		cached bool
		lastIn In
		last   Out
	)
	return func(s S) Out {
		in := input(s)

		mu.Lock()
		defer mu.Unlock()
		if cached && in == lastIn {
			return last
		}
		last = result(in)
		lastIn = in
		cached = true
		return last
	}
}

// SelectArg is Select for selectors that take a parameter, such as an id.
// The cache is keyed on both the input and the argument.
func SelectArg[S any, In comparable, Arg comparable, Out any](input func(S) In, result func(In, Arg) Out) func(S, Arg) Out {
	var (
		mu      sync.Mutex
		cached  bool
		lastIn  In
		lastArg Arg
		last    Out
	)
	return func(s S, arg Arg) Out {
		in := input(s)

		mu.Lock()
		defer mu.Unlock()
		if cached && in == lastIn && arg == lastArg {
			return last
		}
		last = result(in, arg)
		lastIn, lastArg = in, arg
		cached = true
		return last
	}
}

// Pair combines two comparable inputs into one, for selectors that depend on
// more than one part of the state.
type Pair[A, B comparable] struct {
	First  A
	Second B
}
