// File: pool/tracking.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ownership-checking allocator wrapper.

package pool

import (
	"fmt"
	"sync"

	"github.com/momentics/hioload-ring/api"
)

// TrackingAllocator wraps another allocator and remembers every live handle.
// Releasing a handle it never issued, or releasing one twice, fails with
// api.ErrInvalidHandle and leaves the inner allocator untouched.
type TrackingAllocator[T any] struct {
	inner api.Allocator[T]

	mu   sync.Mutex
	live map[*T]struct{}
	counters
}

// NewTrackingAllocator wraps inner; nil selects a HeapAllocator.
func NewTrackingAllocator[T any](inner api.Allocator[T]) *TrackingAllocator[T] {
	if inner == nil {
		inner = NewHeapAllocator[T]()
	}
	return &TrackingAllocator[T]{
		inner: inner,
		live:  make(map[*T]struct{}),
	}
}

// Allocate obtains an element from the inner allocator and tracks it.
func (t *TrackingAllocator[T]) Allocate() (*T, error) {
	elem, err := t.inner.Allocate()
	if err != nil {
		return nil, err
	}
	t.Track(elem)
	return elem, nil
}

// Track adopts a handle created outside the allocator.
func (t *TrackingAllocator[T]) Track(elem *T) {
	if elem == nil {
		return
	}
	t.mu.Lock()
	t.live[elem] = struct{}{}
	t.mu.Unlock()
	t.allocated.Add(1)
}

// Release forwards a tracked handle to the inner allocator. If the inner
// release fails the handle stays tracked, so its owner may release it again.
func (t *TrackingAllocator[T]) Release(elem *T) error {
	if elem == nil {
		return nil
	}
	t.mu.Lock()
	if _, ok := t.live[elem]; !ok {
		t.mu.Unlock()
		return api.NewError(api.ErrCodeInvalidHandle, "release of untracked handle").
			WithContext("handle", fmt.Sprintf("%p", elem))
	}
	// Claimed under the lock so a concurrent double release is rejected.
	delete(t.live, elem)
	t.mu.Unlock()

	if err := t.inner.Release(elem); err != nil {
		t.mu.Lock()
		t.live[elem] = struct{}{}
		t.mu.Unlock()
		return err
	}
	t.released.Add(1)
	return nil
}

// Owns reports whether elem is live according to this allocator.
func (t *TrackingAllocator[T]) Owns(elem *T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.live[elem]
	return ok
}

// Live returns the number of outstanding handles.
func (t *TrackingAllocator[T]) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// AllocateSlots delegates backing storage to the inner allocator when it manages slots.
func (t *TrackingAllocator[T]) AllocateSlots(n int) []*T {
	if sa, ok := t.inner.(api.SlotAllocator[T]); ok {
		t.slotsAllocated.Add(1)
		return sa.AllocateSlots(n)
	}
	return allocateSlots[T](&t.counters, n)
}

// ReleaseSlots releases backing storage obtained from AllocateSlots.
func (t *TrackingAllocator[T]) ReleaseSlots(slots []*T) {
	if sa, ok := t.inner.(api.SlotAllocator[T]); ok {
		t.slotsReleased.Add(1)
		sa.ReleaseSlots(slots)
		return
	}
	releaseSlots(&t.counters, slots)
}

// Stats returns counters observed at the tracking layer.
func (t *TrackingAllocator[T]) Stats() api.AllocatorStats {
	return t.snapshot()
}

var (
	_ api.Allocator[int]     = (*TrackingAllocator[int])(nil)
	_ api.SlotAllocator[int] = (*TrackingAllocator[int])(nil)
)
