// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package pool

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/momentics/hioload-builder/api"
)

// SyncPool is a size-classed SlicePool over sync.Pool. Idle storage may be
// reclaimed by the GC, trading reuse rate for zero steady-state footprint.
type SyncPool[T any] struct {
	cfg     *Config
	classes sizeClasses
	pools   []sync.Pool // each holds *[]T
	log     logrus.FieldLogger

	totalRent   atomic.Int64
	totalReturn atomic.Int64
	allocated   atomic.Int64
	discarded   atomic.Int64
}

// NewSyncPool creates a SyncPool; ClassCapacity is ignored.
func NewSyncPool[T any](opts ...Option) *SyncPool[T] {
	cfg := newConfig(opts)
	sc := newSizeClasses(cfg)
	return &SyncPool[T]{
		cfg:     cfg,
		classes: sc,
		pools:   make([]sync.Pool, sc.count),
		log:     cfg.Logger.WithField("component", "pool.SyncPool"),
	}
}

func (sp *SyncPool[T]) Rent(minimum int) ([]T, error) {
	if err := checkRent(sp.cfg, false, minimum); err != nil {
		return nil, err
	}
	sp.totalRent.Add(1)

	idx, ok := sp.classes.forRent(minimum)
	if !ok {
		sp.allocated.Add(1)
		sp.log.WithField("len", minimum).Debug("oversize rent, allocating unpooled storage")
		return make([]T, minimum), nil
	}
	size := sp.classes.size(idx)
	if v := sp.pools[idx].Get(); v != nil {
		return (*v.(*[]T))[:size], nil
	}
	sp.allocated.Add(1)
	return make([]T, size), nil
}

func (sp *SyncPool[T]) Return(s []T) {
	if cap(s) == 0 {
		return
	}
	sp.totalReturn.Add(1)

	idx, ok := sp.classes.forReturn(cap(s))
	if !ok {
		sp.discarded.Add(1)
		sp.log.WithField("cap", cap(s)).Debug("dropping returned storage")
		return
	}
	s = s[:cap(s)]
	sp.pools[idx].Put(&s)
}

// Stats reports rent/return accounting; ClassStats is always empty since
// sync.Pool does not expose its size.
func (sp *SyncPool[T]) Stats() api.PoolStats {
	rent := sp.totalRent.Load()
	ret := sp.totalReturn.Load()
	return api.PoolStats{
		TotalRent:   rent,
		TotalReturn: ret,
		InUse:       rent - ret,
		Allocated:   sp.allocated.Load(),
		Discarded:   sp.discarded.Load(),
		ClassStats:  map[int]int64{},
	}
}

var (
	_ api.SlicePool[int] = (*SyncPool[int])(nil)
	_ api.StatsProvider  = (*SyncPool[int])(nil)
)
