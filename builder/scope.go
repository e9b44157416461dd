// File: builder/scope.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package builder

import "github.com/momentics/hioload-builder/api"

// Build runs fill against a Builder with initial capacity n and returns the
// finalized result. The Builder is released on every exit path, including
// a panic inside fill. fill must not retain the Builder.
func Build[T any](p api.SlicePool[T], n int, fill func(*Builder[T]) error, opts ...Option) (Sequence[T], error) {
	b, err := WithCapacity(p, n, opts...)
	if err != nil {
		return Sequence[T]{}, err
	}
	return run(b, fill)
}

// BuildWithScratch is Build over caller-supplied scratch storage.
func BuildWithScratch[T any](p api.SlicePool[T], scratch []T, fill func(*Builder[T]) error, opts ...Option) (Sequence[T], error) {
	return run(WithScratch(p, scratch, opts...), fill)
}

func run[T any](b *Builder[T], fill func(*Builder[T]) error) (Sequence[T], error) {
	defer b.Release()
	if err := fill(b); err != nil {
		return Sequence[T]{}, err
	}
	return b.Finalize()
}
