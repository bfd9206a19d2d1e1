//go:build !linux
// +build !linux

// File: pool/mmap_other.go
// Author: momentics <momentics@gmail.com>
//
// Stub mmap allocator for unsupported platforms.

package pool

import "github.com/momentics/hioload-ring/api"

// MmapAllocator is unavailable outside linux.
type MmapAllocator[T any] struct{}

// NewMmapAllocator always fails with api.ErrNotSupported.
func NewMmapAllocator[T any]() (*MmapAllocator[T], error) {
	return nil, api.ErrNotSupported
}

// Allocate always fails with api.ErrNotSupported.
func (m *MmapAllocator[T]) Allocate() (*T, error) { return nil, api.ErrNotSupported }

// Release accepts only nil handles.
func (m *MmapAllocator[T]) Release(elem *T) error {
	if elem == nil {
		return nil
	}
	return api.ErrNotSupported
}

// Outstanding is always 0.
func (m *MmapAllocator[T]) Outstanding() int { return 0 }

// Close is a no-op.
func (m *MmapAllocator[T]) Close() error { return nil }

// Stats returns zero counters.
func (m *MmapAllocator[T]) Stats() api.AllocatorStats { return api.AllocatorStats{} }
