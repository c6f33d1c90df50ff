package decor

import (
	"sync/atomic"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    setCounter prometheus.Counter
//	    getCounter *prometheus.CounterVec
//	}
//
//	func (p *PrometheusCollector) RecordSet(err error) {
//	    p.setCounter.Inc()
//	    // ... record error state, etc.
//	}
type MetricsCollector interface {
	// RecordSet is called after each set operation.
	// err is nil if successful.
	RecordSet(err error)

	// RecordGet is called after each lookup.
	// hit reports whether an association was present.
	RecordGet(hit bool)

	// RecordDelete is called after each explicit delete.
	// removed reports whether an association was removed.
	RecordDelete(removed bool)

	// RecordReclaim is called when an entry is discarded because its
	// key was collected.
	RecordReclaim()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSet(error)   {}
func (NoopMetricsCollector) RecordGet(bool)    {}
func (NoopMetricsCollector) RecordDelete(bool) {}
func (NoopMetricsCollector) RecordReclaim()    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SetCount      atomic.Int64
	SetErrors     atomic.Int64
	GetCount      atomic.Int64
	GetHits       atomic.Int64
	DeleteCount   atomic.Int64
	DeleteRemoved atomic.Int64
	ReclaimCount  atomic.Int64
}

// RecordSet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSet(err error) {
	b.SetCount.Add(1)
	if err != nil {
		b.SetErrors.Add(1)
	}
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(hit bool) {
	b.GetCount.Add(1)
	if hit {
		b.GetHits.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(removed bool) {
	b.DeleteCount.Add(1)
	if removed {
		b.DeleteRemoved.Add(1)
	}
}

// RecordReclaim implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReclaim() {
	b.ReclaimCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SetCount:      b.SetCount.Load(),
		SetErrors:     b.SetErrors.Load(),
		GetCount:      b.GetCount.Load(),
		GetHits:       b.GetHits.Load(),
		DeleteCount:   b.DeleteCount.Load(),
		DeleteRemoved: b.DeleteRemoved.Load(),
		ReclaimCount:  b.ReclaimCount.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SetCount      int64
	SetErrors     int64
	GetCount      int64
	GetHits       int64
	DeleteCount   int64
	DeleteRemoved int64
	ReclaimCount  int64
}
