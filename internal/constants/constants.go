package constants

import "time"

// Record and chunk size defaults
const (
	// RecordSize is the fixed size in bytes of a single trace record (R).
	RecordSize = 64

	// DefaultRingCapacity is the default per-ring record capacity. Must be
	// a power of two.
	DefaultRingCapacity = 1 << 13

	// DefaultMaxRecordsPerChunk bounds how many records a single ring may
	// contribute to one flush tick's buffer chunk.
	DefaultMaxRecordsPerChunk = 1 << 10
)

// Retry policy for the notification scanner's torn-tail detection.
//
// A trace that appears unterminated when scanned may simply be mid-write by
// the producer. The scanner retries a bounded number of times, sleeping
// between attempts, before giving up and logging the trace as skipped.
const (
	// NumRetriesOnPartialRecord is the number of times a torn trace is
	// re-scanned before it is skipped.
	NumRetriesOnPartialRecord = 3

	// RetryWaitLen is the sleep between torn-trace retries.
	RetryWaitLen = 10 * time.Microsecond
)

// DefaultThresholdSeverity is the minimum severity the notification
// scanner considers, absent an explicit configuration override.
const DefaultThresholdSeverity = 3 // record.SeverityWarn
