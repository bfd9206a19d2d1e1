// File: api/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded ring of owned element handles for single-owner producer/consumer use.

package api

// OwningRing is a fixed-capacity ring that owns the elements written into it.
//
// Write transfers ownership of the element to the ring. Read transfers it back
// to the caller. Elements still held by the ring when it is closed, or evicted
// to make room on overflow, are released through the ring's Allocator.
// Implementations are not safe for concurrent use.
type OwningRing[T any] interface {
	// Read removes the element at head; ok is false if the ring is empty.
	Read() (elem *T, ok bool)
	// Write stores elem, evicting at head when full.
	Write(elem *T) error
	// Status reports occupancy without mutating the ring.
	Status() Status
	// Close releases every owned element and the backing storage.
	Close() error
}
