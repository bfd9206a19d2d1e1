// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus export of ring occupancy.
// Rings are single-owner, so scrapes read a published StatusCell rather than
// the ring itself.

package control

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-ring/api"
)

// StatusCell holds the last published status; safe for concurrent use.
type StatusCell struct {
	v atomic.Pointer[api.Status]
}

// Publish stores a snapshot taken by the ring's owner.
func (c *StatusCell) Publish(s api.Status) {
	c.v.Store(&s)
}

// Status returns the last published snapshot, or the zero Status.
func (c *StatusCell) Status() api.Status {
	if s := c.v.Load(); s != nil {
		return *s
	}
	return api.Status{}
}

var _ api.StatusProvider = (*StatusCell)(nil)

// RingCollector exports count, capacity and occupancy ratio of one ring.
type RingCollector struct {
	src      api.StatusProvider
	count    *prometheus.Desc
	capacity *prometheus.Desc
	ratio    *prometheus.Desc
}

// NewRingCollector creates a collector labelled with the ring name.
func NewRingCollector(name string, src api.StatusProvider) *RingCollector {
	labels := prometheus.Labels{"ring": name}
	return &RingCollector{
		src: src,
		count: prometheus.NewDesc("hioload_ring_count",
			"Number of elements owned by the ring.", nil, labels),
		capacity: prometheus.NewDesc("hioload_ring_capacity",
			"Fixed slot capacity of the ring.", nil, labels),
		ratio: prometheus.NewDesc("hioload_ring_occupancy_ratio",
			"Owned elements divided by capacity.", nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *RingCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.count
	ch <- c.capacity
	ch <- c.ratio
}

// Collect implements prometheus.Collector.
func (c *RingCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Status()
	ch <- prometheus.MustNewConstMetric(c.count, prometheus.GaugeValue, float64(s.Count))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
	ch <- prometheus.MustNewConstMetric(c.ratio, prometheus.GaugeValue, s.Ratio())
}

var _ prometheus.Collector = (*RingCollector)(nil)
