package manigo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordForward is called after each forward pass.
	// nodes is the number of graph vertices processed, duration is the
	// total time taken, err is nil if successful.
	RecordForward(nodes int, duration time.Duration, err error)

	// RecordPostprocess is called after each postprocessing run.
	RecordPostprocess(k int, duration time.Duration, err error)

	// RecordSave is called after each artifact save.
	RecordSave(duration time.Duration, err error)

	// RecordLoad is called after each artifact load.
	RecordLoad(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordForward(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordPostprocess(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSave(time.Duration, error)             {}
func (NoopMetricsCollector) RecordLoad(time.Duration, error)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ForwardCount          atomic.Int64
	ForwardErrors         atomic.Int64
	ForwardTotalNanos     atomic.Int64
	PostprocessCount      atomic.Int64
	PostprocessErrors     atomic.Int64
	PostprocessTotalNanos atomic.Int64
	SaveCount             atomic.Int64
	SaveErrors            atomic.Int64
	LoadCount             atomic.Int64
	LoadErrors            atomic.Int64
}

// RecordForward implements MetricsCollector.
func (b *BasicMetricsCollector) RecordForward(_ int, duration time.Duration, err error) {
	b.ForwardCount.Add(1)
	b.ForwardTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ForwardErrors.Add(1)
	}
}

// RecordPostprocess implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPostprocess(_ int, duration time.Duration, err error) {
	b.PostprocessCount.Add(1)
	b.PostprocessTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PostprocessErrors.Add(1)
	}
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(_ time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(_ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// Stats is a point-in-time snapshot of a BasicMetricsCollector.
type Stats struct {
	ForwardCount      int64
	ForwardErrors     int64
	ForwardAvgNanos   int64
	PostprocessCount  int64
	PostprocessErrors int64
	SaveCount         int64
	SaveErrors        int64
	LoadCount         int64
	LoadErrors        int64
}

// GetStats returns a snapshot of collected metrics.
func (b *BasicMetricsCollector) GetStats() Stats {
	s := Stats{
		ForwardCount:      b.ForwardCount.Load(),
		ForwardErrors:     b.ForwardErrors.Load(),
		PostprocessCount:  b.PostprocessCount.Load(),
		PostprocessErrors: b.PostprocessErrors.Load(),
		SaveCount:         b.SaveCount.Load(),
		SaveErrors:        b.SaveErrors.Load(),
		LoadCount:         b.LoadCount.Load(),
		LoadErrors:        b.LoadErrors.Load(),
	}
	if s.ForwardCount > 0 {
		s.ForwardAvgNanos = b.ForwardTotalNanos.Load() / s.ForwardCount
	}
	return s
}
