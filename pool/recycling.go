// File: pool/recycling.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Free-list allocator: released elements are recycled by later Allocate calls.

package pool

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-ring/api"
)

// DefaultRecycleLimit bounds the free list when no explicit limit is given.
const DefaultRecycleLimit = 1024

// RecyclingAllocator keeps up to limit released elements in a FIFO free list.
// Recycled elements are zeroed before they are handed out again. Releasing an
// element that is already on the free list fails with api.ErrInvalidHandle.
type RecyclingAllocator[T any] struct {
	mu     sync.Mutex
	free   *queue.Queue
	queued map[*T]struct{}
	limit  int
	counters
}

// NewRecyclingAllocator creates an allocator retaining at most limit free elements.
// A non-positive limit selects DefaultRecycleLimit.
func NewRecyclingAllocator[T any](limit int) *RecyclingAllocator[T] {
	if limit <= 0 {
		limit = DefaultRecycleLimit
	}
	return &RecyclingAllocator[T]{
		free:   queue.New(),
		queued: make(map[*T]struct{}),
		limit:  limit,
	}
}

// Allocate pops the oldest free element, or allocates a new one.
func (r *RecyclingAllocator[T]) Allocate() (*T, error) {
	r.allocated.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.free.Length() > 0 {
		r.reused.Add(1)
		elem := r.free.Remove().(*T)
		delete(r.queued, elem)
		return elem, nil
	}
	return new(T), nil
}

// Release zeroes elem and queues it for reuse while the free list has room.
// Elements dropped because the list was full are left to the garbage collector.
func (r *RecyclingAllocator[T]) Release(elem *T) error {
	if elem == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.queued[elem]; ok {
		return api.NewError(api.ErrCodeInvalidHandle, "element already on free list")
	}
	var zero T
	*elem = zero
	r.released.Add(1)
	if r.free.Length() < r.limit {
		r.free.Add(elem)
		r.queued[elem] = struct{}{}
	}
	return nil
}

// AllocateSlots returns n empty slots for a ring's backing storage.
func (r *RecyclingAllocator[T]) AllocateSlots(n int) []*T { return allocateSlots[T](&r.counters, n) }

// ReleaseSlots drops a ring's backing storage.
func (r *RecyclingAllocator[T]) ReleaseSlots(slots []*T) { releaseSlots(&r.counters, slots) }

// Free returns the current free-list length.
func (r *RecyclingAllocator[T]) Free() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.free.Length()
}

// Stats returns allocation counters.
func (r *RecyclingAllocator[T]) Stats() api.AllocatorStats {
	return r.snapshot()
}

var (
	_ api.Allocator[int]     = (*RecyclingAllocator[int])(nil)
	_ api.SlotAllocator[int] = (*RecyclingAllocator[int])(nil)
)
