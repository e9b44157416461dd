package builder_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-builder/api"
	"github.com/momentics/hioload-builder/builder"
	"github.com/momentics/hioload-builder/pool"
)

func collect[T any](t *testing.T, s builder.Sequence[T]) []T {
	t.Helper()
	out := make([]T, 0, s.Len())
	for v := range s.Values() {
		out = append(out, v)
	}
	return out
}

func countKind(events []pool.Event, kind pool.EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestBuilder_GrowsOnceFromCapacityFour(t *testing.T) {
	tp := pool.NewTracking[int](pool.NewClassPool[int]())
	b, err := builder.WithCapacity[int](tp, 4)
	require.NoError(t, err)
	defer b.Release()

	for i := 0; i < 5; i++ {
		require.NoError(t, b.Append(i))
	}

	// one initial rent plus one growth
	assert.Equal(t, 2, countKind(tp.Events(), pool.EventRent))
	assert.Equal(t, 8, b.Cap())

	seq, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, collect(t, seq))
}

func TestBuilder_ScratchGrowthReturnsOnlyRentedStorage(t *testing.T) {
	tp := pool.NewTracking[string](pool.NewClassPool[string]())
	scratch := make([]string, 2)
	b := builder.WithScratch[string](tp, scratch)

	require.NoError(t, b.Append("a"))
	require.NoError(t, b.Append("b"))
	assert.Empty(t, tp.Events(), "no pool traffic before scratch is full")
	assert.False(t, b.Pooled())

	require.NoError(t, b.Append("c"))
	assert.True(t, b.Pooled())
	assert.GreaterOrEqual(t, b.Cap(), 3)
	assert.Equal(t, []string{"", ""}, scratch, "scratch prefix cleared after growth")

	seq, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, collect(t, seq))

	b.Release()
	events := tp.Events()
	require.Len(t, events, 2)
	assert.Equal(t, pool.EventRent, events[0].Kind)
	assert.Equal(t, pool.EventReturn, events[1].Kind)
	assert.Equal(t, events[0].ID, events[1].ID)
	assert.Zero(t, tp.ForeignReturns())
	assert.Zero(t, tp.Outstanding())
}

func TestBuilder_AppendThenRemoveLastLeavesEmpty(t *testing.T) {
	b, err := builder.WithCapacity[string](pool.NewClassPool[string](), 1)
	require.NoError(t, err)
	defer b.Release()

	require.NoError(t, b.Append("x"))
	require.NoError(t, b.RemoveLast())

	seq, err := b.Finalize()
	require.NoError(t, err)
	assert.True(t, seq.Empty())
	assert.Equal(t, 0, seq.Len())
}

func TestBuilder_LargeGrowthRentReturnPairs(t *testing.T) {
	tp := pool.NewTracking[int](pool.NewClassPool[int]())
	b, err := builder.WithCapacity[int](tp, 128)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		require.NoError(t, b.Append(i))
	}
	seq, err := b.Finalize()
	require.NoError(t, err)
	b.Release()

	events := tp.Events()
	assert.Equal(t, 2, countKind(events, pool.EventRent))
	assert.Equal(t, 2, countKind(events, pool.EventReturn))
	assert.Equal(t, []int{128, 256}, []int{events[0].Len, events[1].Len})
	assert.Zero(t, tp.Outstanding())
	assert.Zero(t, tp.DoubleReturns())

	require.Equal(t, 200, seq.Len())
	for i, v := range seq.All() {
		require.Equal(t, i, v)
	}
}

func TestBuilder_OrderPreservedAcrossGrowth(t *testing.T) {
	b, err := builder.WithCapacity[int](pool.NewSyncPool[int](), 0)
	require.NoError(t, err)
	defer b.Release()

	want := make([]int, 0, 1000)
	for i := 0; i < 1000; i++ {
		require.NoError(t, b.Append(i*7))
		want = append(want, i*7)
		if i%10 == 9 {
			require.NoError(t, b.RemoveLast())
			want = want[:len(want)-1]
		}
	}
	seq, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, want, seq.Slice())
	assert.Equal(t, len(want), b.Len())
}

func TestBuilder_ReleaseIsIdempotent(t *testing.T) {
	tp := pool.NewTracking[int](pool.NewClassPool[int]())
	b, err := builder.WithCapacity[int](tp, 8)
	require.NoError(t, err)
	require.NoError(t, b.Append(1))

	b.Release()
	b.Release()

	assert.True(t, b.Released())
	assert.Equal(t, 1, countKind(tp.Events(), pool.EventReturn))
	assert.Zero(t, tp.DoubleReturns())
	assert.Zero(t, tp.Outstanding())
}

func TestBuilder_ScratchReleaseNeverTouchesPool(t *testing.T) {
	p := &api.MockSlicePool[int]{
		RentFunc:   func(int) ([]int, error) { t.Fatal("unexpected rent"); return nil, nil },
		ReturnFunc: func([]int) { t.Fatal("scratch storage returned to pool") },
	}
	b := builder.WithScratch[int](p, make([]int, 4))
	require.NoError(t, b.AppendAll(1, 2, 3))
	b.Release()
	b.Release()
}

func TestBuilder_FinalizeIsIndependent(t *testing.T) {
	b, err := builder.WithCapacity[int](pool.NewClassPool[int](), 4)
	require.NoError(t, err)
	defer b.Release()

	require.NoError(t, b.AppendAll(1, 2, 3))
	first, err := b.Finalize()
	require.NoError(t, err)

	require.NoError(t, b.RemoveLast())
	require.NoError(t, b.AppendAll(9, 9, 9, 9))
	second, err := b.Finalize()
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, first.Slice())
	assert.Equal(t, []int{1, 2, 9, 9, 9, 9}, second.Slice())

	mutable := first.Slice()
	mutable[0] = 100
	assert.Equal(t, 1, first.At(0))
}

func TestBuilder_ContractViolations(t *testing.T) {
	b, err := builder.WithCapacity[int](pool.NewClassPool[int](), 4)
	require.NoError(t, err)

	assert.ErrorIs(t, b.RemoveLast(), api.ErrBuilderEmpty)

	b.Release()
	assert.ErrorIs(t, b.Append(1), api.ErrBuilderReleased)
	assert.ErrorIs(t, b.RemoveLast(), api.ErrBuilderReleased)
	_, err = b.Finalize()
	assert.ErrorIs(t, err, api.ErrBuilderReleased)
}

func TestBuilder_CapacityExhausted(t *testing.T) {
	b, err := builder.WithCapacity[int](&api.MockSlicePool[int]{}, 4, builder.WithMaxLength(6))
	require.NoError(t, err)
	defer b.Release()

	for i := 0; i < 6; i++ {
		require.NoError(t, b.Append(i))
	}
	assert.Equal(t, 6, b.Cap())

	err = b.Append(6)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrCapacityExhausted)
	assert.ErrorIs(t, err, api.ErrResourceExhausted)

	seq, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, seq.Slice())
}

func TestBuilder_MaxLengthTrimsPooledStorage(t *testing.T) {
	// ClassPool rounds 5 up to 8, which must not lift the cap.
	b, err := builder.WithCapacity[int](pool.NewClassPool[int](), 5, builder.WithMaxLength(5))
	require.NoError(t, err)
	defer b.Release()

	require.NoError(t, b.AppendAll(1, 2, 3, 4, 5))
	assert.ErrorIs(t, b.Append(6), api.ErrCapacityExhausted)

	_, err = builder.WithCapacity[int](pool.NewClassPool[int](), 10, builder.WithMaxLength(5))
	assert.ErrorIs(t, err, api.ErrCapacityExhausted)
}

func TestBuilder_PoolFailurePropagatesUnchanged(t *testing.T) {
	boom := errors.New("pool exhausted")
	calls := 0
	p := &api.MockSlicePool[int]{
		RentFunc: func(n int) ([]int, error) {
			calls++
			if calls > 1 {
				return nil, boom
			}
			return make([]int, n), nil
		},
	}

	_, err := builder.WithCapacity[int](&api.MockSlicePool[int]{
		RentFunc: func(int) ([]int, error) { return nil, boom },
	}, 4)
	assert.Same(t, boom, err)

	b, err := builder.WithCapacity[int](p, 1)
	require.NoError(t, err)
	defer b.Release()
	require.NoError(t, b.Append(1))

	err = b.Append(2)
	assert.Same(t, boom, err)
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, 1, b.Cap())
	assert.Equal(t, 2, calls, "no retry after a failed rent")
}

func TestBuilder_ClosedPool(t *testing.T) {
	cp := pool.NewClassPool[int]()
	require.NoError(t, cp.Close())

	_, err := builder.WithCapacity[int](cp, 4)
	assert.ErrorIs(t, err, api.ErrBufferPoolClosed)
}

func TestBuilder_InvalidArguments(t *testing.T) {
	_, err := builder.WithCapacity[int](nil, 4)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)

	_, err = builder.WithCapacity[int](pool.NewClassPool[int](), -1)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)

	var nilBuilder *builder.Builder[int]
	assert.NotPanics(t, nilBuilder.Release)
}
