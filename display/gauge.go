// Package display
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Occupancy gauge: maps a ring's status snapshot onto a row of segments.
// The segment mask is what an LED bar driver would latch; Render draws the
// same mask as text.

package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/momentics/hioload-ring/api"
)

// MaxSegments is the widest bar a mask can describe.
const MaxSegments = 64

// Renderer draws a status snapshot.
type Renderer interface {
	Render(w io.Writer, s api.Status) error
}

// Segments returns a bitmask with the lowest ceil(count*n/capacity) bits set.
// n is clamped to [0, MaxSegments]; an empty or zero-capacity ring lights nothing.
func Segments(s api.Status, n int) uint64 {
	if n > MaxSegments {
		n = MaxSegments
	}
	if n <= 0 || s.Capacity <= 0 || s.Count <= 0 {
		return 0
	}
	lit := (s.Count*n + s.Capacity - 1) / s.Capacity
	if lit >= MaxSegments {
		return ^uint64(0)
	}
	if lit > n {
		lit = n
	}
	return 1<<uint(lit) - 1
}

// Gauge renders a status as "[###.....] count/capacity".
type Gauge struct {
	segments int
	on, off  byte
}

// NewGauge creates a text gauge with the given number of segments.
func NewGauge(segments int) *Gauge {
	if segments <= 0 {
		segments = 8
	}
	if segments > MaxSegments {
		segments = MaxSegments
	}
	return &Gauge{segments: segments, on: '#', off: '.'}
}

// Render implements Renderer.
func (g *Gauge) Render(w io.Writer, s api.Status) error {
	mask := Segments(s, g.segments)
	var sb strings.Builder
	sb.Grow(g.segments + 2)
	sb.WriteByte('[')
	for i := 0; i < g.segments; i++ {
		if mask&(1<<uint(i)) != 0 {
			sb.WriteByte(g.on)
		} else {
			sb.WriteByte(g.off)
		}
	}
	sb.WriteByte(']')
	_, err := fmt.Fprintf(w, "%s %d/%d\n", sb.String(), s.Count, s.Capacity)
	return err
}

var _ Renderer = (*Gauge)(nil)
