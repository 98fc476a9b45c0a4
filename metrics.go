package flexobj

import (
	"errors"
	"sync/atomic"
	"time"
)

// MetricsCollector receives construct/destroy telemetry from an Engine.
// Implementations must be safe for concurrent use.
type MetricsCollector interface {
	// RecordConstruct is called after each Make. size is the block size in
	// bytes (0 if planning failed), err is nil if successful.
	RecordConstruct(size int, duration time.Duration, err error)

	// RecordDestroy is called after each Destroy.
	RecordDestroy(size int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordConstruct(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordDestroy(int, time.Duration)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ConstructCount      atomic.Int64
	ConstructErrors     atomic.Int64
	Rollbacks           atomic.Int64
	ConstructTotalNanos atomic.Int64
	DestroyCount        atomic.Int64
	LiveBytes           atomic.Int64
}

// RecordConstruct implements MetricsCollector.
func (b *BasicMetricsCollector) RecordConstruct(size int, duration time.Duration, err error) {
	b.ConstructCount.Add(1)
	b.ConstructTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ConstructErrors.Add(1)
		if errors.Is(err, ErrConstruction) {
			b.Rollbacks.Add(1)
		}
		return
	}
	b.LiveBytes.Add(int64(size))
}

// RecordDestroy implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDestroy(size int, _ time.Duration) {
	b.DestroyCount.Add(1)
	b.LiveBytes.Add(-int64(size))
}

// BasicMetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	ConstructCount    int64
	ConstructErrors   int64
	Rollbacks         int64
	ConstructAvgNanos int64
	DestroyCount      int64
	Live              int64
	LiveBytes         int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	constructs := b.ConstructCount.Load()
	failed := b.ConstructErrors.Load()
	destroys := b.DestroyCount.Load()

	var avg int64
	if constructs > 0 {
		avg = b.ConstructTotalNanos.Load() / constructs
	}

	return BasicMetricsStats{
		ConstructCount:    constructs,
		ConstructErrors:   failed,
		Rollbacks:         b.Rollbacks.Load(),
		ConstructAvgNanos: avg,
		DestroyCount:      destroys,
		Live:              constructs - failed - destroys,
		LiveBytes:         b.LiveBytes.Load(),
	}
}
