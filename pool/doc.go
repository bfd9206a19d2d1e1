// Package pool
// Author: momentics <momentics@gmail.com>
//
// Allocation strategies for owning rings.
// Every allocator here treats release of a nil handle as a no-op and keeps
// atomic counters, so one allocator may back several rings.
// See heap.go, recycling.go, tracking.go and mmap_linux.go for implementation details.
package pool
