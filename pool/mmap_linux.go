//go:build linux
// +build linux

// File: pool/mmap_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux-specific allocator backing each element with its own anonymous mapping.

package pool

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-ring/api"
)

// MmapAllocator places every element in a private anonymous mapping outside the
// Go heap; Release unmaps it. T must not contain Go pointers.
type MmapAllocator[T any] struct {
	mu    sync.Mutex
	maps  map[*T][]byte
	size  int
	unmap func([]byte) error
	counters
}

// NewMmapAllocator creates an mmap-backed allocator for T.
func NewMmapAllocator[T any]() (*MmapAllocator[T], error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "cannot map zero-sized element type")
	}
	return &MmapAllocator[T]{
		maps:  make(map[*T][]byte),
		size:  size,
		unmap: unix.Munmap,
	}, nil
}

// Allocate maps a fresh zero-filled element.
func (m *MmapAllocator[T]) Allocate() (*T, error) {
	mem, err := unix.Mmap(-1, 0, m.size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap %d bytes", m.size)
	}
	elem := (*T)(unsafe.Pointer(&mem[0]))

	m.mu.Lock()
	m.maps[elem] = mem
	m.mu.Unlock()
	m.allocated.Add(1)
	return elem, nil
}

// Release unmaps elem. A failed unmap keeps the mapping registered so the
// owner, or Close, can retry it.
func (m *MmapAllocator[T]) Release(elem *T) error {
	if elem == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.maps[elem]
	if !ok {
		return api.NewError(api.ErrCodeInvalidHandle, "handle not mapped by this allocator")
	}
	if err := m.unmap(mem); err != nil {
		return errors.Wrap(err, "munmap element")
	}
	delete(m.maps, elem)
	m.released.Add(1)
	return nil
}

// AllocateSlots returns n empty slots; slot storage stays on the Go heap.
func (m *MmapAllocator[T]) AllocateSlots(n int) []*T { return allocateSlots[T](&m.counters, n) }

// ReleaseSlots drops a ring's backing storage.
func (m *MmapAllocator[T]) ReleaseSlots(slots []*T) { releaseSlots(&m.counters, slots) }

// Outstanding returns the number of live mappings.
func (m *MmapAllocator[T]) Outstanding() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.maps)
}

// Close unmaps every element still outstanding, including ones read out of a
// ring and never released by their owner. Mappings that fail to unmap stay
// registered and the first failure is returned.
func (m *MmapAllocator[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for elem, mem := range m.maps {
		if err := m.unmap(mem); err != nil {
			if firstErr == nil {
				firstErr = errors.Wrap(err, "munmap outstanding element")
			}
			continue
		}
		delete(m.maps, elem)
		m.released.Add(1)
	}
	return firstErr
}

// Stats returns allocation counters.
func (m *MmapAllocator[T]) Stats() api.AllocatorStats {
	return m.snapshot()
}

var (
	_ api.Allocator[int]     = (*MmapAllocator[int])(nil)
	_ api.SlotAllocator[int] = (*MmapAllocator[int])(nil)
)
