// Package api
// Author: momentics
//
// Mock/testing utilities for all core contracts.

package api

// MockSlicePool is a test and mock-friendly implementation of SlicePool.
// A nil RentFunc allocates exactly; a nil ReturnFunc drops the slice.
type MockSlicePool[T any] struct {
	RentFunc   func(minimum int) ([]T, error)
	ReturnFunc func(s []T)
}

func (m *MockSlicePool[T]) Rent(minimum int) ([]T, error) {
	if m.RentFunc == nil {
		return make([]T, minimum), nil
	}
	return m.RentFunc(minimum)
}

func (m *MockSlicePool[T]) Return(s []T) {
	if m.ReturnFunc != nil {
		m.ReturnFunc(s)
	}
}

var _ SlicePool[int] = (*MockSlicePool[int])(nil)
