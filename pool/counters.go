// File: pool/counters.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync/atomic"

	"github.com/momentics/hioload-ring/api"
)

// counters holds allocation telemetry shared by all allocators.
type counters struct {
	allocated      atomic.Int64
	released       atomic.Int64
	reused         atomic.Int64
	slotsAllocated atomic.Int64
	slotsReleased  atomic.Int64
}

func (c *counters) snapshot() api.AllocatorStats {
	return api.AllocatorStats{
		Allocated:      c.allocated.Load(),
		Released:       c.released.Load(),
		Reused:         c.reused.Load(),
		SlotsAllocated: c.slotsAllocated.Load(),
		SlotsReleased:  c.slotsReleased.Load(),
	}
}

// allocateSlots returns n empty owning-handle slots and records the allocation.
func allocateSlots[T any](c *counters, n int) []*T {
	c.slotsAllocated.Add(1)
	return make([]*T, n)
}

// releaseSlots drops every reference held by slots and records the release.
func releaseSlots[T any](c *counters, slots []*T) {
	clear(slots)
	c.slotsReleased.Add(1)
}
