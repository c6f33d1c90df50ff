package wrap

import (
	"sync"
	"time"
)

// CallRecorder receives call outcomes from Metered wrappers. Implement this
// interface to integrate with monitoring systems.
type CallRecorder interface {
	// RecordCall is called once per call with the wrapper name, the call
	// duration and the resulting error (nil on success).
	RecordCall(name string, duration time.Duration, err error)
}

// CallStats is a snapshot of recorded outcomes for one wrapper name.
type CallStats struct {
	Count      int64
	Errors     int64
	TotalNanos int64
}

// AvgNanos returns the mean call latency in nanoseconds.
func (s CallStats) AvgNanos() int64 {
	if s.Count == 0 {
		return 0
	}
	return s.TotalNanos / s.Count
}

// BasicCallRecorder provides simple in-memory call metering, grouped by
// wrapper name. Useful for debugging and tests without external
// dependencies.
//
// BasicCallRecorder is safe for concurrent use.
type BasicCallRecorder struct {
	mu    sync.Mutex
	stats map[string]CallStats
}

// NewBasicCallRecorder creates an empty recorder.
func NewBasicCallRecorder() *BasicCallRecorder {
	return &BasicCallRecorder{
		stats: make(map[string]CallStats),
	}
}

// RecordCall implements CallRecorder.
func (b *BasicCallRecorder) RecordCall(name string, duration time.Duration, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.stats[name]
	s.Count++
	s.TotalNanos += duration.Nanoseconds()
	if err != nil {
		s.Errors++
	}
	b.stats[name] = s
}

// Stats returns the snapshot for name. Unknown names report zero stats.
func (b *BasicCallRecorder) Stats(name string) CallStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats[name]
}
