// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Allocation strategy contracts used by owning rings.

package api

// Allocator produces and releases element handles.
//
// Release is invoked exactly once per evicted or destroyed element. Releasing a
// nil handle must be a no-op returning nil.
type Allocator[T any] interface {
	// Allocate returns a new element owned by the caller.
	Allocate() (*T, error)

	// Release destroys an element previously handed to a ring.
	Release(elem *T) error
}

// SlotAllocator is implemented by allocators that also manage the backing
// slot storage of a ring. ReleaseSlots is called exactly once per ring.
type SlotAllocator[T any] interface {
	AllocateSlots(n int) []*T
	ReleaseSlots(slots []*T)
}

// AllocatorStats is a point-in-time counter snapshot.
type AllocatorStats struct {
	Allocated      int64
	Released       int64
	Reused         int64
	SlotsAllocated int64
	SlotsReleased  int64
}

// Live returns the number of elements allocated and not yet released.
func (s AllocatorStats) Live() int64 {
	return s.Allocated - s.Released
}
