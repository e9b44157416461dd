// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines abstract pooling APIs: reusable typed storage for transient builders.

package api

// SlicePool lends reusable []T storage and reclaims it on return.
// Implementations must be safe for concurrent use by distinct callers.
type SlicePool[T any] interface {
	// Rent returns a slice with len >= minimum. Its contents are undefined
	// and must be treated as uninitialized.
	Rent(minimum int) ([]T, error)

	// Return hands storage back to the pool; it must not be used afterwards.
	Return(s []T)
}

// StatsProvider exposes accounting for observability.
type StatsProvider interface {
	Stats() PoolStats
}

// PoolStats aggregates rent/return accounting.
type PoolStats struct {
	TotalRent   int64
	TotalReturn int64
	InUse       int64
	Allocated   int64         // rents served by fresh allocation
	Discarded   int64         // returns dropped instead of pooled
	ClassStats  map[int]int64 // pooled slices currently idle, by class size
}
