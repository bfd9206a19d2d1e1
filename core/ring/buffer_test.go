package ring_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/ring"
	"github.com/momentics/hioload-ring/fake"
	"github.com/momentics/hioload-ring/pool"
)

func newRing(t *testing.T, capacity int, opts ...ring.Option[string]) (*ring.Buffer[string], *fake.Allocator[string]) {
	t.Helper()
	alloc := fake.NewAllocator[string]()
	opts = append([]ring.Option[string]{ring.WithAllocator[string](alloc)}, opts...)
	b, err := ring.New[string](capacity, opts...)
	require.NoError(t, err)
	return b, alloc
}

func elems(names ...string) []*string {
	out := make([]*string, len(names))
	for i := range names {
		out[i] = &names[i]
	}
	return out
}

func TestBuffer_FreshIsEmpty(t *testing.T) {
	for _, c := range []int{0, 1, 2, 3, 8, 100} {
		t.Run(fmt.Sprintf("cap=%d", c), func(t *testing.T) {
			b, _ := newRing(t, c)
			assert.Equal(t, api.Status{Count: 0, Capacity: c}, b.Status())
			got, ok := b.Read()
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}

func TestBuffer_NegativeCapacity(t *testing.T) {
	_, err := ring.New[int](-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrInvalidArgument))
}

func TestBuffer_RoundTripKeepsIdentity(t *testing.T) {
	b, alloc := newRing(t, 4)
	x := elems("x")[0]

	require.NoError(t, b.Write(x))
	assert.Equal(t, 1, b.Len())

	got, ok := b.Read()
	require.True(t, ok)
	assert.Same(t, x, got)
	assert.True(t, b.Status().Empty())
	assert.Empty(t, alloc.Released(), "read element must not be released")
}

func TestBuffer_FillWithoutOverflow(t *testing.T) {
	const c = 5
	b, alloc := newRing(t, c)
	in := elems("e1", "e2", "e3", "e4", "e5")
	for _, e := range in {
		require.NoError(t, b.Write(e))
	}
	assert.True(t, b.Status().Full())
	assert.Empty(t, alloc.Released())

	for i := 0; i < c; i++ {
		got, ok := b.Read()
		require.True(t, ok)
		assert.Same(t, in[i], got)
	}
	_, ok := b.Read()
	assert.False(t, ok)
}

func TestBuffer_WrapAround(t *testing.T) {
	b, _ := newRing(t, 3)
	in := elems("a", "b", "c", "d", "e")

	require.NoError(t, b.Write(in[0]))
	require.NoError(t, b.Write(in[1]))
	got, _ := b.Read()
	assert.Same(t, in[0], got)
	require.NoError(t, b.Write(in[2]))
	require.NoError(t, b.Write(in[3]))
	assert.True(t, b.Status().Full())

	for _, want := range in[1:4] {
		got, ok := b.Read()
		require.True(t, ok)
		assert.Same(t, want, got)
	}
}

func TestBuffer_OverflowOverwritesHead(t *testing.T) {
	b, alloc := newRing(t, 3)
	in := elems("A", "B", "C", "D")
	for _, e := range in[:3] {
		require.NoError(t, b.Write(e))
	}

	require.NoError(t, b.Write(in[3]))
	require.Len(t, alloc.Released(), 1)
	assert.Same(t, in[0], alloc.Released()[0])
	assert.Equal(t, api.Status{Count: 3, Capacity: 3}, b.Status())

	for _, want := range []*string{in[3], in[1], in[2]} {
		got, ok := b.Read()
		require.True(t, ok)
		assert.Same(t, want, got)
	}
	assert.True(t, b.Status().Empty())
}

func TestBuffer_OverflowDropOldest(t *testing.T) {
	b, alloc := newRing(t, 3, ring.WithOverflowPolicy[string](ring.DropOldest))
	in := elems("A", "B", "C", "D", "E")
	for _, e := range in {
		require.NoError(t, b.Write(e))
	}
	released := alloc.Released()
	require.Len(t, released, 2)
	assert.Same(t, in[0], released[0])
	assert.Same(t, in[1], released[1])

	for _, want := range in[2:] {
		got, ok := b.Read()
		require.True(t, ok)
		assert.Same(t, want, got)
	}
}

func TestBuffer_EvictionFaultLeavesStateIntact(t *testing.T) {
	b, alloc := newRing(t, 2)
	in := elems("A", "B", "C")
	boom := errors.New("bad handle")
	alloc.FailRelease = func(e *string) error {
		if e == in[0] {
			return boom
		}
		return nil
	}
	require.NoError(t, b.Write(in[0]))
	require.NoError(t, b.Write(in[1]))

	err := b.Write(in[2])
	assert.Same(t, boom, err)
	assert.Equal(t, api.Status{Count: 2, Capacity: 2}, b.Status())

	got, _ := b.Read()
	assert.Same(t, in[0], got)
	got, _ = b.Read()
	assert.Same(t, in[1], got)
}

func TestBuffer_ZeroCapacity(t *testing.T) {
	b, alloc := newRing(t, 0)
	x := elems("x")[0]

	require.NoError(t, b.Write(x))
	assert.Equal(t, api.Status{Count: 0, Capacity: 0}, b.Status())
	_, ok := b.Read()
	assert.False(t, ok)
	require.Len(t, alloc.Released(), 1)
	assert.Same(t, x, alloc.Released()[0])

	require.NoError(t, b.Close())
	assert.Equal(t, 1, alloc.SlotReleases())
}

func TestBuffer_NilHandleIsStored(t *testing.T) {
	b, err := ring.New[int](1, ring.WithAllocator[int](pool.NewTrackingAllocator[int](nil)))
	require.NoError(t, err)

	require.NoError(t, b.Write(nil))
	assert.Equal(t, 1, b.Len())
	// Evicting the nil handle is a release no-op.
	require.NoError(t, b.Write(nil))
	got, ok := b.Read()
	assert.True(t, ok)
	assert.Nil(t, got)

	require.NoError(t, b.Write(nil))
	assert.NoError(t, b.Close())
}

func TestBuffer_CloseReleasesLiveElements(t *testing.T) {
	for k := 0; k <= 4; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			b, alloc := newRing(t, 4)
			in := elems("a", "b", "c", "d")[:k]
			for _, e := range in {
				require.NoError(t, b.Write(e))
			}
			require.NoError(t, b.Close())

			released := alloc.Released()
			require.Len(t, released, k)
			for i := range in {
				assert.Same(t, in[i], released[i])
			}
			assert.Equal(t, 1, alloc.SlotAllocs())
			assert.Equal(t, 1, alloc.SlotReleases())

			require.NoError(t, b.Close())
			assert.Len(t, alloc.Released(), k)
			assert.Equal(t, 1, alloc.SlotReleases())
		})
	}
}

func TestBuffer_CloseSkipsReadElements(t *testing.T) {
	b, alloc := newRing(t, 3)
	in := elems("a", "b", "c", "d")
	for _, e := range in[:3] {
		require.NoError(t, b.Write(e))
	}
	_, _ = b.Read()
	require.NoError(t, b.Write(in[3]))
	require.NoError(t, b.Close())

	assert.Equal(t, []*string{in[1], in[2], in[3]}, alloc.Released())
}

func TestBuffer_CloseContinuesPastFaults(t *testing.T) {
	b, alloc := newRing(t, 3)
	in := elems("a", "b", "c")
	errA := errors.New("a failed")
	errC := errors.New("c failed")
	alloc.FailRelease = func(e *string) error {
		switch e {
		case in[0]:
			return errA
		case in[2]:
			return errC
		}
		return nil
	}
	for _, e := range in {
		require.NoError(t, b.Write(e))
	}

	err := b.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errC)
	assert.Equal(t, []*string{in[1]}, alloc.Released())
	assert.Equal(t, 1, alloc.SlotReleases())
	assert.Equal(t, api.Status{Count: 0, Capacity: 3}, b.Status())
}

func TestBuffer_CloseSingleFaultUnmodified(t *testing.T) {
	b, alloc := newRing(t, 2)
	boom := errors.New("boom")
	alloc.FailRelease = func(*string) error { return boom }
	require.NoError(t, b.Write(elems("a")[0]))

	assert.Same(t, boom, b.Close())
}

func TestBuffer_UseAfterClose(t *testing.T) {
	b, alloc := newRing(t, 2)
	require.NoError(t, b.Close())

	x := elems("x")[0]
	assert.ErrorIs(t, b.Write(x), api.ErrClosed)
	assert.Empty(t, alloc.Released())
	_, ok := b.Read()
	assert.False(t, ok)
	assert.Equal(t, api.Status{Count: 0, Capacity: 2}, b.Status())
}

func TestBuffer_RepeatedEmptyReads(t *testing.T) {
	b, _ := newRing(t, 2)
	in := elems("a", "b")
	require.NoError(t, b.Write(in[0]))
	_, _ = b.Read()

	for i := 0; i < 5; i++ {
		_, ok := b.Read()
		assert.False(t, ok)
		assert.Equal(t, api.Status{Count: 0, Capacity: 2}, b.Status())
	}
	// head must still point at slot 1: the next two writes read back in order.
	require.NoError(t, b.Write(in[0]))
	require.NoError(t, b.Write(in[1]))
	got, _ := b.Read()
	assert.Same(t, in[0], got)
}

func TestBuffer_PlainAllocatorUsesOwnSlots(t *testing.T) {
	heap := pool.NewHeapAllocator[int]()
	// Hide the SlotAllocator methods.
	plain := struct{ api.Allocator[int] }{heap}

	b, err := ring.New[int](2, ring.WithAllocator[int](plain))
	require.NoError(t, err)
	v, _ := heap.Allocate()
	require.NoError(t, b.Write(v))
	require.NoError(t, b.Close())

	st := heap.Stats()
	assert.Equal(t, int64(0), st.SlotsAllocated)
	assert.Equal(t, int64(1), st.Released)
}

func TestBuffer_DefaultAllocator(t *testing.T) {
	b, err := ring.New[int](1)
	require.NoError(t, err)
	v := 7
	require.NoError(t, b.Write(&v))
	require.NoError(t, b.Close())
	assert.Equal(t, 0, v, "heap allocator zeroes released elements")
}

func TestBuffer_LogsEviction(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	b, _ := newRing(t, 1, ring.WithLogger[string](zap.New(core)))
	in := elems("a", "b")
	require.NoError(t, b.Write(in[0]))
	require.NoError(t, b.Write(in[1]))

	assert.Equal(t, 1, logs.FilterMessage("evicted").Len())
}

func TestWith_ClosesOnEveryPath(t *testing.T) {
	alloc := fake.NewAllocator[string]()
	in := elems("a", "b")

	err := ring.With(2, func(b *ring.Buffer[string]) error {
		return b.Write(in[0])
	}, ring.WithAllocator[string](alloc))
	require.NoError(t, err)
	assert.Len(t, alloc.Released(), 1)

	fnErr := errors.New("fn failed")
	err = ring.With(2, func(b *ring.Buffer[string]) error {
		_ = b.Write(in[1])
		return fnErr
	}, ring.WithAllocator[string](alloc))
	assert.ErrorIs(t, err, fnErr)
	assert.Len(t, alloc.Released(), 2)

	assert.Panics(t, func() {
		_ = ring.With(2, func(b *ring.Buffer[string]) error {
			_ = b.Write(in[0])
			panic("boom")
		}, ring.WithAllocator[string](alloc))
	})
	assert.Len(t, alloc.Released(), 3)
	assert.Equal(t, 3, alloc.SlotReleases())
}

func TestParseOverflowPolicy(t *testing.T) {
	for _, p := range []ring.OverflowPolicy{ring.OverwriteHead, ring.DropOldest} {
		got, err := ring.ParseOverflowPolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	got, err := ring.ParseOverflowPolicy("")
	require.NoError(t, err)
	assert.Equal(t, ring.OverwriteHead, got)

	_, err = ring.ParseOverflowPolicy("lifo")
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}
