// File: builder/sequence.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package builder

import "iter"

// Sequence is an immutable, fixed-length snapshot produced by
// Builder.Finalize. It owns its storage; nothing else can write to it.
// The zero value is an empty sequence.
type Sequence[T any] struct {
	items []T
}

// Len returns the number of elements.
func (s Sequence[T]) Len() int { return len(s.items) }

// Empty reports whether the sequence has no elements.
func (s Sequence[T]) Empty() bool { return len(s.items) == 0 }

// At returns the i-th element. It panics if i is out of range.
func (s Sequence[T]) At(i int) T { return s.items[i] }

// All yields index/value pairs in order.
func (s Sequence[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range s.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values yields elements in order.
func (s Sequence[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.items {
			if !yield(v) {
				return
			}
		}
	}
}

// AppendTo appends the elements to dst and returns the extended slice.
func (s Sequence[T]) AppendTo(dst []T) []T {
	return append(dst, s.items...)
}

// Slice returns a mutable copy of the elements.
func (s Sequence[T]) Slice() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
