// Package builder
// Author: momentics <momentics@gmail.com>
//
// Transient, allocation-minimizing accumulation of values into an immutable
// Sequence. A Builder borrows its storage from an api.SlicePool (or adopts a
// caller-supplied scratch slice), grows by renting larger storage from the
// same pool, and hands everything back on Release.
//
// A Builder has exactly one owner. Keep it inside the function that created
// it, release it with defer, and never share it across goroutines or retain
// it after that function returns:
//
//	b, err := builder.WithCapacity(p, 16)
//	if err != nil {
//		return err
//	}
//	defer b.Release()
//
// Build wraps that pattern.
package builder
