package fvec

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting adapter metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordAdapt is called after each adaptation.
	// path is the conversion path taken (PathNone on failure).
	RecordAdapt(path Path, duration time.Duration, err error)

	// RecordCompute is called after each statistic invocation.
	RecordCompute(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdapt(Path, time.Duration, error) {}
func (NoopMetricsCollector) RecordCompute(time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AdaptCount        atomic.Int64
	AdaptErrors       atomic.Int64
	AdaptTotalNanos   atomic.Int64
	IdentityCount     atomic.Int64
	ZeroCopyCount     atomic.Int64
	CastCount         atomic.Int64
	ComputeCount      atomic.Int64
	ComputeErrors     atomic.Int64
	ComputeTotalNanos atomic.Int64
}

// RecordAdapt implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdapt(path Path, duration time.Duration, err error) {
	b.AdaptCount.Add(1)
	b.AdaptTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AdaptErrors.Add(1)
		return
	}
	switch path {
	case PathIdentity:
		b.IdentityCount.Add(1)
	case PathZeroCopy:
		b.ZeroCopyCount.Add(1)
	case PathCast:
		b.CastCount.Add(1)
	}
}

// RecordCompute implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompute(duration time.Duration, err error) {
	b.ComputeCount.Add(1)
	b.ComputeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ComputeErrors.Add(1)
	}
}

// MetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type MetricsStats struct {
	AdaptCount      int64
	AdaptErrors     int64
	IdentityCount   int64
	ZeroCopyCount   int64
	CastCount       int64
	AdaptAvgNanos   int64
	ComputeCount    int64
	ComputeErrors   int64
	ComputeAvgNanos int64
}

// GetStats returns a snapshot of the collected metrics.
func (b *BasicMetricsCollector) GetStats() MetricsStats {
	s := MetricsStats{
		AdaptCount:    b.AdaptCount.Load(),
		AdaptErrors:   b.AdaptErrors.Load(),
		IdentityCount: b.IdentityCount.Load(),
		ZeroCopyCount: b.ZeroCopyCount.Load(),
		CastCount:     b.CastCount.Load(),
		ComputeCount:  b.ComputeCount.Load(),
		ComputeErrors: b.ComputeErrors.Load(),
	}
	if s.AdaptCount > 0 {
		s.AdaptAvgNanos = b.AdaptTotalNanos.Load() / s.AdaptCount
	}
	if s.ComputeCount > 0 {
		s.ComputeAvgNanos = b.ComputeTotalNanos.Load() / s.ComputeCount
	}
	return s
}
