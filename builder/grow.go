// File: builder/grow.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package builder

import (
	"fmt"

	"github.com/momentics/hioload-builder/api"
)

const minGrowth = 4

// nextCapacity returns the storage length to grow to from cur, or false
// when no length above cur fits within maxLen.
func nextCapacity(cur, maxLen int) (int, bool) {
	next := minGrowth
	if cur != 0 {
		next = cur * 2
	}
	if next > maxLen || next < cur {
		next = max(max(cur+1, maxLen), cur)
	}
	if next <= cur || next > maxLen {
		return cur, false
	}
	return next, true
}

// grow moves the filled prefix into larger pool storage. On error the
// Builder is left exactly as it was.
func (b *Builder[T]) grow() error {
	cur := len(b.buf)
	next, ok := nextCapacity(cur, b.maxLen)
	if !ok {
		return api.NewError(api.ErrCodeResourceExhausted, api.ErrCapacityExhausted.Message).
			WithContext("len", cur).
			WithContext("max", b.maxLen)
	}
	if b.pool == nil {
		return fmt.Errorf("builder: grow without pool: %w", api.ErrInvalidArgument)
	}

	s, err := b.pool.Rent(next)
	if err != nil {
		return err
	}
	if len(s) < next {
		b.pool.Return(s)
		return api.NewError(api.ErrCodeInternal, "builder: pool returned short storage").
			WithContext("want", next).
			WithContext("got", len(s))
	}

	copy(s, b.buf[:b.pos])
	clear(b.buf[:b.pos])
	if b.pooled {
		b.pool.Return(b.buf)
	}
	b.buf = s[:min(len(s), b.maxLen)]
	b.pooled = true
	return nil
}
