// File: pool/class_pool.go
// Package pool implements lock-free, size-classed slice pooling.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/momentics/hioload-builder/api"
	"github.com/momentics/hioload-builder/internal/concurrency"
)

// ClassPool lends []T storage from power-of-two size classes. Each class
// keeps its idle slices in a lock-free queue, so concurrent builders rent
// and return without contending on a mutex. Rents above MaxClass are
// allocated exactly and never retained.
type ClassPool[T any] struct {
	cfg     *Config
	classes sizeClasses
	queues  []*concurrency.LockFreeQueue[[]T]
	log     logrus.FieldLogger
	closed  atomic.Bool

	totalRent   atomic.Int64
	totalReturn atomic.Int64
	allocated   atomic.Int64
	discarded   atomic.Int64
}

// NewClassPool builds a pool from DefaultConfig adjusted by opts.
func NewClassPool[T any](opts ...Option) *ClassPool[T] {
	cfg := newConfig(opts)
	sc := newSizeClasses(cfg)
	p := &ClassPool[T]{
		cfg:     cfg,
		classes: sc,
		queues:  make([]*concurrency.LockFreeQueue[[]T], sc.count),
		log:     cfg.Logger.WithField("component", "pool.ClassPool"),
	}
	if cfg.ClassCapacity > 0 {
		for i := range p.queues {
			p.queues[i] = concurrency.NewLockFreeQueue[[]T](cfg.ClassCapacity)
		}
	}
	return p
}

// Rent returns a slice of at least minimum slots.
func (p *ClassPool[T]) Rent(minimum int) ([]T, error) {
	if err := checkRent(p.cfg, p.closed.Load(), minimum); err != nil {
		return nil, err
	}
	p.totalRent.Add(1)

	idx, ok := p.classes.forRent(minimum)
	if !ok {
		p.allocated.Add(1)
		p.log.WithField("len", minimum).Debug("oversize rent, allocating unpooled storage")
		return make([]T, minimum), nil
	}
	size := p.classes.size(idx)
	if q := p.queues[idx]; q != nil {
		if s, ok := q.Dequeue(); ok {
			return s[:size], nil
		}
	}
	p.allocated.Add(1)
	return make([]T, size), nil
}

// Return hands s back to its size class. Slices whose capacity is not an
// exact class size, and slices arriving at a full class, are dropped.
func (p *ClassPool[T]) Return(s []T) {
	if cap(s) == 0 {
		return
	}
	p.totalReturn.Add(1)

	idx, ok := p.classes.forReturn(cap(s))
	if !ok || p.closed.Load() || p.queues[idx] == nil {
		p.discard(cap(s), "no matching class")
		return
	}
	if !p.queues[idx].Enqueue(s[:cap(s)]) {
		p.discard(cap(s), "class full")
	}
}

func (p *ClassPool[T]) discard(capacity int, reason string) {
	p.discarded.Add(1)
	p.log.WithFields(logrus.Fields{"cap": capacity, "reason": reason}).Debug("dropping returned storage")
}

// Close stops serving rents and drops all idle storage. Returns arriving
// after Close are discarded.
func (p *ClassPool[T]) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	for _, q := range p.queues {
		if q == nil {
			continue
		}
		for {
			if _, ok := q.Dequeue(); !ok {
				break
			}
		}
	}
	p.log.Debug("pool closed")
	return nil
}

// Stats reports rent/return accounting.
func (p *ClassPool[T]) Stats() api.PoolStats {
	rent := p.totalRent.Load()
	ret := p.totalReturn.Load()
	classes := make(map[int]int64, len(p.queues))
	for i, q := range p.queues {
		if q != nil {
			classes[p.classes.size(i)] = int64(q.Len())
		}
	}
	return api.PoolStats{
		TotalRent:   rent,
		TotalReturn: ret,
		InUse:       rent - ret,
		Allocated:   p.allocated.Load(),
		Discarded:   p.discarded.Load(),
		ClassStats:  classes,
	}
}

// checkRent validates a rent request against cfg.
func checkRent(cfg *Config, closed bool, minimum int) error {
	switch {
	case closed:
		return api.ErrBufferPoolClosed
	case minimum < 0:
		return fmt.Errorf("pool: rent %d slots: %w", minimum, api.ErrInvalidArgument)
	case minimum > cfg.MaxRent:
		return api.NewError(api.ErrCodeResourceExhausted, "pool: rent exceeds limit").
			WithContext("minimum", minimum).
			WithContext("limit", cfg.MaxRent)
	}
	return nil
}

var (
	_ api.SlicePool[int] = (*ClassPool[int])(nil)
	_ api.StatsProvider  = (*ClassPool[int])(nil)
)
