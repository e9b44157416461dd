// File: pool/sizeclass.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import "math/bits"

// sizeClasses maps requested slot counts onto power-of-two classes
// MinClass, 2*MinClass, ..., MaxClass.
type sizeClasses struct {
	min      int
	max      int
	minShift int
	count    int
}

func newSizeClasses(cfg *Config) sizeClasses {
	minShift := bits.TrailingZeros(uint(cfg.MinClass))
	maxShift := bits.TrailingZeros(uint(cfg.MaxClass))
	return sizeClasses{
		min:      cfg.MinClass,
		max:      cfg.MaxClass,
		minShift: minShift,
		count:    maxShift - minShift + 1,
	}
}

// forRent returns the class index serving a request of n slots;
// ok is false when n is above the largest class.
func (sc sizeClasses) forRent(n int) (idx int, ok bool) {
	if n > sc.max {
		return 0, false
	}
	if n <= sc.min {
		return 0, true
	}
	return bits.Len(uint(n-1)) - sc.minShift, true
}

// forReturn returns the class whose size equals capacity exactly.
func (sc sizeClasses) forReturn(capacity int) (idx int, ok bool) {
	if capacity < sc.min || capacity > sc.max || capacity&(capacity-1) != 0 {
		return 0, false
	}
	return bits.TrailingZeros(uint(capacity)) - sc.minShift, true
}

// size returns the slot count of class idx.
func (sc sizeClasses) size(idx int) int {
	return sc.min << idx
}
