// File: pool/heap.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Default allocation strategy: plain Go heap allocation.

package pool

import "github.com/momentics/hioload-ring/api"

// HeapAllocator allocates elements with new(T). Release zeroes the element so
// a dangling reference observes a destroyed value rather than stale data.
type HeapAllocator[T any] struct {
	counters
}

// NewHeapAllocator creates the default allocator.
func NewHeapAllocator[T any]() *HeapAllocator[T] {
	return &HeapAllocator[T]{}
}

// Allocate returns a new zero-valued element.
func (h *HeapAllocator[T]) Allocate() (*T, error) {
	h.allocated.Add(1)
	return new(T), nil
}

// Release zeroes elem; nil is a no-op.
func (h *HeapAllocator[T]) Release(elem *T) error {
	if elem == nil {
		return nil
	}
	var zero T
	*elem = zero
	h.released.Add(1)
	return nil
}

// AllocateSlots returns n empty slots for a ring's backing storage.
func (h *HeapAllocator[T]) AllocateSlots(n int) []*T { return allocateSlots[T](&h.counters, n) }

// ReleaseSlots drops a ring's backing storage.
func (h *HeapAllocator[T]) ReleaseSlots(slots []*T) { releaseSlots(&h.counters, slots) }

// Stats returns allocation counters.
func (h *HeapAllocator[T]) Stats() api.AllocatorStats {
	return h.snapshot()
}

var (
	_ api.Allocator[int]     = (*HeapAllocator[int])(nil)
	_ api.SlotAllocator[int] = (*HeapAllocator[int])(nil)
)
