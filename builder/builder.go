// File: builder/builder.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package builder

import (
	"fmt"
	"math"

	"github.com/momentics/hioload-builder/api"
)

// DefaultMaxLength is the largest element count a Builder will grow to.
const DefaultMaxLength = math.MaxInt32

// Option customizes a Builder.
type Option func(*options)

type options struct {
	maxLength int
}

// WithMaxLength caps growth at n elements. Values below 1 are ignored.
func WithMaxLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLength = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{maxLength: DefaultMaxLength}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// noCopy makes go vet's copylocks check reject copies of a Builder.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Builder accumulates values in storage borrowed from a pool and freezes
// them into a Sequence. It is single-owner and must be released exactly
// once on every exit path of the scope that created it.
type Builder[T any] struct {
	_ noCopy

	pool     api.SlicePool[T]
	buf      []T
	pos      int
	pooled   bool // buf came from pool and goes back on release
	released bool
	maxLen   int
}

// WithCapacity returns a Builder whose initial storage of at least n slots
// is rented from p. A failed rent is returned unchanged.
func WithCapacity[T any](p api.SlicePool[T], n int, opts ...Option) (*Builder[T], error) {
	if p == nil {
		return nil, fmt.Errorf("builder: nil pool: %w", api.ErrInvalidArgument)
	}
	if n < 0 {
		return nil, fmt.Errorf("builder: capacity %d: %w", n, api.ErrInvalidArgument)
	}
	o := buildOptions(opts)
	if n > o.maxLength {
		return nil, api.NewError(api.ErrCodeResourceExhausted, api.ErrCapacityExhausted.Message).
			WithContext("len", n).
			WithContext("max", o.maxLength)
	}
	s, err := p.Rent(n)
	if err != nil {
		return nil, err
	}
	return &Builder[T]{pool: p, buf: s[:min(len(s), o.maxLength)], pooled: true, maxLen: o.maxLength}, nil
}

// WithScratch returns a Builder that writes into scratch until it is full.
// scratch is never returned to p; p is only used if the Builder grows.
func WithScratch[T any](p api.SlicePool[T], scratch []T, opts ...Option) *Builder[T] {
	o := buildOptions(opts)
	return &Builder[T]{pool: p, buf: scratch[:min(len(scratch), o.maxLength)], maxLen: o.maxLength}
}

// Append adds v after the last filled slot, growing storage when full.
func (b *Builder[T]) Append(v T) error {
	if b.pos < len(b.buf) {
		b.buf[b.pos] = v
		b.pos++
		return nil
	}
	return b.appendSlow(v)
}

// appendSlow is the cold path taken when storage is full.
//
//go:noinline
func (b *Builder[T]) appendSlow(v T) error {
	if b.released {
		return api.ErrBuilderReleased
	}
	if err := b.grow(); err != nil {
		return err
	}
	b.buf[b.pos] = v
	b.pos++
	return nil
}

// AppendAll appends vs in order, stopping at the first error.
func (b *Builder[T]) AppendAll(vs ...T) error {
	for _, v := range vs {
		if err := b.Append(v); err != nil {
			return err
		}
	}
	return nil
}

// RemoveLast drops the most recently appended value.
func (b *Builder[T]) RemoveLast() error {
	if b.pos == 0 {
		if b.released {
			return api.ErrBuilderReleased
		}
		return api.ErrBuilderEmpty
	}
	b.pos--
	var zero T
	b.buf[b.pos] = zero
	return nil
}

// Finalize copies the filled prefix into a new Sequence. The Builder keeps
// its contents and may be appended to or finalized again.
func (b *Builder[T]) Finalize() (Sequence[T], error) {
	if b.released {
		return Sequence[T]{}, api.ErrBuilderReleased
	}
	if b.pos == 0 {
		return Sequence[T]{}, nil
	}
	items := make([]T, b.pos)
	copy(items, b.buf[:b.pos])
	return Sequence[T]{items: items}, nil
}

// Release clears the filled prefix and hands pooled storage back to the
// pool. Scratch storage is never returned. Further calls are no-ops.
func (b *Builder[T]) Release() {
	if b == nil || b.released {
		return
	}
	clear(b.buf[:b.pos])
	if b.pooled && b.buf != nil {
		b.pool.Return(b.buf)
	}
	b.buf = nil
	b.pos = 0
	b.pooled = false
	b.released = true
}

// Len returns the number of filled slots.
func (b *Builder[T]) Len() int { return b.pos }

// Cap returns the current storage length.
func (b *Builder[T]) Cap() int { return len(b.buf) }

// Pooled reports whether the current storage belongs to the pool.
func (b *Builder[T]) Pooled() bool { return b.pooled }

// Released reports whether Release has run.
func (b *Builder[T]) Released() bool { return b.released }
