// File: api/status.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Occupancy snapshot exported to gauges, probes and metrics.

package api

// Status is the (count, capacity) pair of a ring at one instant.
type Status struct {
	Count    int
	Capacity int
}

// Ratio returns Count/Capacity in [0, 1]; a zero-capacity ring reports 0.
func (s Status) Ratio() float64 {
	if s.Capacity <= 0 {
		return 0
	}
	return float64(s.Count) / float64(s.Capacity)
}

// Empty reports whether no element is held.
func (s Status) Empty() bool { return s.Count == 0 }

// Full reports whether the next write evicts.
func (s Status) Full() bool { return s.Count == s.Capacity }

// StatusProvider is the read-only view consumed by renderers and collectors.
type StatusProvider interface {
	Status() Status
}
