// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake allocation strategies for testing owning rings.

package fake

import (
	"sync"

	"github.com/momentics/hioload-ring/api"
)

// Allocator records every release in call order and can inject faults.
type Allocator[T any] struct {
	mu sync.Mutex

	// FailRelease, when set, is consulted before a release is recorded; a
	// non-nil result is returned and the element is not counted as released.
	FailRelease func(elem *T) error

	released     []*T
	slotAllocs   int
	slotReleases int
}

// NewAllocator creates a recording allocator.
func NewAllocator[T any]() *Allocator[T] {
	return &Allocator[T]{}
}

// Allocate returns a fresh element.
func (a *Allocator[T]) Allocate() (*T, error) {
	return new(T), nil
}

// Release records elem, nil included, unless FailRelease rejects it.
func (a *Allocator[T]) Release(elem *T) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.FailRelease != nil {
		if err := a.FailRelease(elem); err != nil {
			return err
		}
	}
	a.released = append(a.released, elem)
	return nil
}

// AllocateSlots records a backing-store allocation.
func (a *Allocator[T]) AllocateSlots(n int) []*T {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.slotAllocs++
	return make([]*T, n)
}

// ReleaseSlots records a backing-store release.
func (a *Allocator[T]) ReleaseSlots(_ []*T) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.slotReleases++
}

// Released returns a copy of the released elements in release order.
func (a *Allocator[T]) Released() []*T {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*T, len(a.released))
	copy(out, a.released)
	return out
}

// SlotAllocs returns how many times backing storage was allocated.
func (a *Allocator[T]) SlotAllocs() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.slotAllocs
}

// SlotReleases returns how many times backing storage was released.
func (a *Allocator[T]) SlotReleases() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.slotReleases
}

var (
	_ api.Allocator[int]     = (*Allocator[int])(nil)
	_ api.SlotAllocator[int] = (*Allocator[int])(nil)
)
