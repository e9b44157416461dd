// File: pool/tracking.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Recording decorator for auditing rent/return discipline.

package pool

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-builder/api"
)

// EventKind distinguishes recorded pool operations.
type EventKind int

const (
	EventRent EventKind = iota
	EventReturn
	EventRentFailed
)

func (k EventKind) String() string {
	switch k {
	case EventRent:
		return "rent"
	case EventReturn:
		return "return"
	case EventRentFailed:
		return "rent-failed"
	}
	return "unknown"
}

// Event is one recorded pool operation. ID links a return to its rent;
// it is zero for returns of storage this tracker never handed out.
type Event struct {
	Kind EventKind
	Len  int // requested minimum for rents, capacity for returns
	ID   uint64
}

// DefaultHistory bounds the number of events a Tracking pool retains.
const DefaultHistory = 4096

// Tracking wraps a SlicePool and records every operation. Outstanding
// storage is identified by its backing array, so element types of size
// zero cannot be told apart.
type Tracking[T any] struct {
	inner   api.SlicePool[T]
	history int

	mu          sync.Mutex
	events      *queue.Queue
	outstanding map[*T]uint64
	returned    map[*T]struct{}
	nextID      uint64
	doubles     int
	foreign     int
}

// NewTracking decorates inner, keeping the last DefaultHistory events.
func NewTracking[T any](inner api.SlicePool[T]) *Tracking[T] {
	return NewTrackingWithHistory(inner, DefaultHistory)
}

// NewTrackingWithHistory decorates inner, keeping at most history events.
func NewTrackingWithHistory[T any](inner api.SlicePool[T], history int) *Tracking[T] {
	if history < 1 {
		history = 1
	}
	return &Tracking[T]{
		inner:       inner,
		history:     history,
		events:      queue.New(),
		outstanding: make(map[*T]uint64),
		returned:    make(map[*T]struct{}),
	}
}

func (t *Tracking[T]) Rent(minimum int) ([]T, error) {
	s, err := t.inner.Rent(minimum)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.record(Event{Kind: EventRentFailed, Len: minimum})
		return nil, err
	}
	t.nextID++
	if key := backing(s); key != nil {
		delete(t.returned, key)
		t.outstanding[key] = t.nextID
	}
	t.record(Event{Kind: EventRent, Len: minimum, ID: t.nextID})
	return s, nil
}

func (t *Tracking[T]) Return(s []T) {
	key := backing(s)
	if key == nil {
		t.mu.Lock()
		t.record(Event{Kind: EventReturn})
		t.mu.Unlock()
		t.inner.Return(s)
		return
	}

	t.mu.Lock()
	id, ok := t.outstanding[key]
	switch {
	case ok:
		delete(t.outstanding, key)
		if len(t.returned) >= t.history {
			// bounded like the event history
			clear(t.returned)
		}
		t.returned[key] = struct{}{}
	case t.seenReturn(key):
		t.doubles++
	default:
		t.foreign++
	}
	t.record(Event{Kind: EventReturn, Len: cap(s), ID: id})
	t.mu.Unlock()

	if ok {
		t.inner.Return(s)
	}
}

// seenReturn reports whether key was rented and returned before.
// Callers hold t.mu.
func (t *Tracking[T]) seenReturn(key *T) bool {
	_, ok := t.returned[key]
	return ok
}

func (t *Tracking[T]) record(e Event) {
	t.events.Add(e)
	for t.events.Length() > t.history {
		t.events.Remove()
	}
}

// Events returns a snapshot of the retained events, oldest first.
func (t *Tracking[T]) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, t.events.Length())
	for i := range out {
		out[i] = t.events.Get(i).(Event)
	}
	return out
}

// Outstanding reports how many rented slices have not been returned.
func (t *Tracking[T]) Outstanding() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.outstanding)
}

// DoubleReturns counts returns of storage that was already returned.
// Detection covers the most recent returns only; see NewTrackingWithHistory.
// Such returns are not forwarded to the wrapped pool.
func (t *Tracking[T]) DoubleReturns() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.doubles
}

// ForeignReturns counts returns of storage this tracker never rented.
// Such returns are not forwarded to the wrapped pool.
func (t *Tracking[T]) ForeignReturns() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.foreign
}

// backing identifies a slice by the first element of its backing array.
func backing[T any](s []T) *T {
	if cap(s) == 0 {
		return nil
	}
	return &s[:cap(s)][0]
}

var _ api.SlicePool[int] = (*Tracking[int])(nil)
