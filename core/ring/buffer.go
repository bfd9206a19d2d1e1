// File: core/ring/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/pool"
)

// Ensure compile-time interface compliance.
var (
	_ api.OwningRing[any] = (*Buffer[any])(nil)
	_ api.StatusProvider  = (*Buffer[any])(nil)
)

// Buffer is a fixed-capacity ring of owned *T handles.
type Buffer[T any] struct {
	slots    []*T
	head     int
	count    int
	capacity int

	alloc  api.Allocator[T]
	policy OverflowPolicy
	log    *zap.Logger
	closed bool
}

// New allocates backing storage for capacity slots. The buffer starts empty.
// Without WithAllocator elements are released by a pool.HeapAllocator.
func New[T any](capacity int, opts ...Option[T]) (*Buffer[T], error) {
	if capacity < 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "negative ring capacity").
			WithContext("capacity", capacity)
	}
	b := &Buffer[T]{
		capacity: capacity,
		policy:   OverwriteHead,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.alloc == nil {
		b.alloc = pool.NewHeapAllocator[T]()
	}

	if sa, ok := b.alloc.(api.SlotAllocator[T]); ok {
		b.slots = sa.AllocateSlots(capacity)
		if len(b.slots) != capacity {
			return nil, api.NewError(api.ErrCodeInternal, "slot allocator returned wrong slot count").
				WithContext("want", capacity).
				WithContext("got", len(b.slots))
		}
	} else {
		b.slots = make([]*T, capacity)
	}
	return b, nil
}

// Read transfers the element at head to the caller. It returns (nil, false)
// when the buffer is empty. The buffer never releases a returned element.
func (b *Buffer[T]) Read() (*T, bool) {
	if b.count == 0 {
		return nil, false
	}
	return b.take(), true
}

// Write takes ownership of elem. When the buffer is full the element at head
// is released through the allocator first; if that fails the error is
// returned unmodified, the buffer is unchanged and elem stays with the caller.
// A zero-capacity buffer has no slot, so elem itself is released on arrival
// and ownership is consumed even when that release fails.
// A nil elem is stored like any other handle.
func (b *Buffer[T]) Write(elem *T) error {
	if b.closed {
		return api.ErrClosed
	}
	if b.count < b.capacity {
		b.slots[(b.head+b.count)%b.capacity] = elem
		b.count++
		return nil
	}
	if b.capacity == 0 {
		// No slot to hold it: the incoming element is evicted on arrival.
		b.log.Debug("ring has no slots, releasing incoming element")
		return b.alloc.Release(elem)
	}

	if err := b.alloc.Release(b.slots[b.head]); err != nil {
		b.log.Warn("evict failed", zap.Int("slot", b.head), zap.Error(err))
		return err
	}
	b.log.Debug("evicted", zap.Int("slot", b.head), zap.Stringer("policy", b.policy))

	// In a full ring the tail slot is the head slot; only head movement differs.
	b.slots[b.head] = elem
	if b.policy == DropOldest {
		b.head = (b.head + 1) % b.capacity
	}
	return nil
}

// Status returns (count, capacity). It never mutates the buffer.
func (b *Buffer[T]) Status() api.Status {
	return api.Status{Count: b.count, Capacity: b.capacity}
}

// Len returns the number of owned elements.
func (b *Buffer[T]) Len() int { return b.count }

// Cap returns the fixed capacity.
func (b *Buffer[T]) Cap() int { return b.capacity }

// Close releases every owned element in head order, continuing past allocator
// failures, then releases the backing storage exactly once. A single failure
// is returned unmodified; several are combined. Closing twice is a no-op.
func (b *Buffer[T]) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true

	var (
		errs     error
		released int
	)
	for b.count > 0 {
		if err := b.alloc.Release(b.take()); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		released++
	}

	if sa, ok := b.alloc.(api.SlotAllocator[T]); ok {
		sa.ReleaseSlots(b.slots)
	}
	b.slots = nil
	b.head = 0

	if errs != nil {
		b.log.Warn("ring closed with release failures",
			zap.Int("released", released), zap.Error(errs))
	} else {
		b.log.Debug("ring closed", zap.Int("released", released))
	}
	return errs
}

// take detaches the element at head. The caller guarantees count > 0.
func (b *Buffer[T]) take() *T {
	elem := b.slots[b.head]
	b.slots[b.head] = nil
	b.count--
	b.head = (b.head + 1) % b.capacity
	return elem
}

// With constructs a buffer, runs fn and closes the buffer on every exit path,
// including a panic in fn. The close error is combined with fn's error.
func With[T any](capacity int, fn func(*Buffer[T]) error, opts ...Option[T]) (err error) {
	b, err := New[T](capacity, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, b.Close())
	}()
	return fn(b)
}
