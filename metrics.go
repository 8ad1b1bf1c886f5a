package tracedump

import (
	"sync/atomic"
	"time"

	"github.com/yitzikc/tracedump/internal/record"
)

// LatencyBuckets defines the flush-tick latency histogram buckets in
// nanoseconds, log-spaced from 1us to 10s.
var LatencyBuckets = []uint64{
	1_000,
	10_000,
	100_000,
	1_000_000,
	10_000_000,
	100_000_000,
	1_000_000_000,
	10_000_000_000,
}

const numLatencyBuckets = 8

// Metrics tracks performance and operational statistics for the
// write-preparation core across flush ticks.
type Metrics struct {
	FlushTicks     atomic.Uint64
	RecordsDumped  atomic.Uint64
	RecordsLost    atomic.Uint64
	ChunksWritten  atomic.Uint64

	RecordsDiscarded atomic.Uint64

	TracesNotified    atomic.Uint64
	TracesSkippedTorn atomic.Uint64

	TotalLatencyNs atomic.Uint64
	OpCount        atomic.Uint64

	// LatencyBuckets[i] holds the cumulative count of flush ticks whose
	// latency was <= LatencyBuckets[i] nanoseconds.
	LatencyBuckets [numLatencyBuckets]atomic.Uint64

	StartTime atomic.Int64
}

// NewMetrics creates a new metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// RecordFlushTick records one flush tick's latency and the number of
// records it wrote across all rings.
func (m *Metrics) RecordFlushTick(latencyNs uint64, recordsWritten uint64) {
	m.FlushTicks.Add(1)
	m.RecordsDumped.Add(recordsWritten)
	m.recordLatency(latencyNs)
}

// RecordLoss records lost records for one ring in one tick.
func (m *Metrics) RecordLoss(lost uint64) {
	if lost > 0 {
		m.RecordsLost.Add(lost)
	}
}

// RecordDiscard records deliberately-skipped records for one ring.
func (m *Metrics) RecordDiscard(discarded uint64) {
	if discarded > 0 {
		m.RecordsDiscarded.Add(discarded)
	}
}

// RecordNotification records one notification-scanner outcome.
func (m *Metrics) RecordNotification(skipped bool) {
	if skipped {
		m.TracesSkippedTorn.Add(1)
		return
	}
	m.TracesNotified.Add(1)
}

// RecordChunk records one ring's buffer-chunk header written in a tick.
func (m *Metrics) RecordChunk() {
	m.ChunksWritten.Add(1)
}

func (m *Metrics) recordLatency(latencyNs uint64) {
	m.TotalLatencyNs.Add(latencyNs)
	m.OpCount.Add(1)
	for i, bucket := range LatencyBuckets {
		if latencyNs <= bucket {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// MetricsSnapshot is a point-in-time snapshot of Metrics.
type MetricsSnapshot struct {
	FlushTicks        uint64
	RecordsDumped     uint64
	RecordsLost       uint64
	RecordsDiscarded  uint64
	ChunksWritten     uint64
	TracesNotified    uint64
	TracesSkippedTorn uint64
	AvgLatencyNs      uint64
	UptimeNs          uint64
	LatencyHistogram  [numLatencyBuckets]uint64
}

// Snapshot creates a point-in-time snapshot of metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		FlushTicks:        m.FlushTicks.Load(),
		RecordsDumped:     m.RecordsDumped.Load(),
		RecordsLost:       m.RecordsLost.Load(),
		RecordsDiscarded:  m.RecordsDiscarded.Load(),
		ChunksWritten:     m.ChunksWritten.Load(),
		TracesNotified:    m.TracesNotified.Load(),
		TracesSkippedTorn: m.TracesSkippedTorn.Load(),
	}

	opCount := m.OpCount.Load()
	if opCount > 0 {
		snap.AvgLatencyNs = m.TotalLatencyNs.Load() / opCount
	}
	snap.UptimeNs = uint64(time.Now().UnixNano() - m.StartTime.Load())

	for i := 0; i < numLatencyBuckets; i++ {
		snap.LatencyHistogram[i] = m.LatencyBuckets[i].Load()
	}
	return snap
}

// Reset resets all metrics counters (useful for testing).
func (m *Metrics) Reset() {
	m.FlushTicks.Store(0)
	m.RecordsDumped.Store(0)
	m.RecordsLost.Store(0)
	m.RecordsDiscarded.Store(0)
	m.ChunksWritten.Store(0)
	m.TracesNotified.Store(0)
	m.TracesSkippedTorn.Store(0)
	m.TotalLatencyNs.Store(0)
	m.OpCount.Store(0)
	for i := 0; i < numLatencyBuckets; i++ {
		m.LatencyBuckets[i].Store(0)
	}
	m.StartTime.Store(time.Now().UnixNano())
}

// NoOpObserver is a no-op implementation of the Observer seam.
type NoOpObserver struct{}

func (NoOpObserver) ObserveFlushTick(uint64, uint64)           {}
func (NoOpObserver) ObserveLoss(uint32, uint64)                {}
func (NoOpObserver) ObserveDiscard(uint32, uint64)             {}
func (NoOpObserver) ObserveNotification(record.Severity, bool) {}
func (NoOpObserver) ObserveChunk(uint32)                       {}

// MetricsObserver implements the Observer seam using the built-in Metrics.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver creates an observer that records to the given
// metrics instance.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveFlushTick(latencyNs uint64, recordsWritten uint64) {
	o.metrics.RecordFlushTick(latencyNs, recordsWritten)
}

func (o *MetricsObserver) ObserveLoss(_ uint32, lost uint64) {
	o.metrics.RecordLoss(lost)
}

func (o *MetricsObserver) ObserveDiscard(_ uint32, discarded uint64) {
	o.metrics.RecordDiscard(discarded)
}

func (o *MetricsObserver) ObserveNotification(_ record.Severity, skipped bool) {
	o.metrics.RecordNotification(skipped)
}

func (o *MetricsObserver) ObserveChunk(_ uint32) {
	o.metrics.RecordChunk()
}
