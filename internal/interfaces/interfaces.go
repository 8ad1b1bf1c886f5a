// Package interfaces provides the internal seams the write-preparation core
// depends on — never concrete types — so that shared-memory attach/detach,
// vectored I/O, and logging/metrics backends stay external collaborators
// (spec.md §1 "out of scope: external collaborators").
package interfaces

import (
	"golang.org/x/sys/unix"

	"github.com/yitzikc/tracedump/internal/record"
)

// RingDescriptor is a ring's immutable descriptor (spec.md §3).
type RingDescriptor struct {
	ID           uint32
	Capacity     uint32
	CapacityMask uint32
	SeverityTag  record.Severity
	ProducerPID  uint32
}

// Ring is a read-only view onto one producer's shared-memory ring. Storage
// must be treated as concurrently mutable: the producer may overwrite any
// slot the reader's CurrentReadCounter has not yet passed.
type Ring interface {
	Descriptor() RingDescriptor

	// Committed returns a recent snapshot of the producer's committed
	// counter. A single atomic read; tearing across calls is acceptable
	// (spec.md §4.3 step 1).
	Committed() uint64

	// Storage returns the ring's backing record array (len == Capacity).
	Storage() []record.Record
}

// ReaderState is the dumper-owned, per-ring mutable state (spec.md §3).
// It is created alongside a ring's mapping and lives for the ring's
// lifetime, not just one flush tick.
type ReaderState struct {
	// CurrentReadCounter is the next record counter the dumper intends to
	// emit.
	CurrentReadCounter uint64
	// RecordsDiscarded is the cumulative count of records the dumper
	// deliberately skipped. The core only reads it (into the dump header
	// and each chunk header's lost count); it never increments it.
	RecordsDiscarded uint64
	// LastFlushOffset is the record-granularity offset in the output file
	// of this ring's previous chunk header.
	LastFlushOffset uint64
	// NextFlushOffset is computed during a tick and becomes
	// LastFlushOffset once the writer confirms persistence.
	NextFlushOffset uint64
	// ChunkHeader is the reusable in-memory buffer-chunk header record,
	// borrowed mutably for the duration of one tick to avoid per-tick
	// allocation (spec.md §5, §9).
	ChunkHeader record.Record
}

// RingHandle pairs a ring with the dumper's reader state for it.
type RingHandle struct {
	Ring   Ring
	Reader *ReaderState
}

// Registry enumerates the rings currently attached to the dumper, each
// with its mapping and reader state.
type Registry interface {
	Rings() []RingHandle
}

// Writer is the external, file-descriptor-level collaborator that
// consumes an assembled scatter/gather list (spec.md §1, §6).
type Writer interface {
	AppendIovec(iov []unix.Iovec) error

	RecordsWritten() uint64
	LastFlushOffset() uint64
	RecordsDiscarded() uint64
}

// Logger is the diagnostic sink injected into the core instead of reaching
// for process-wide state (spec.md §9).
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Observer collects flush-tick metrics. Implementations must be
// thread-safe; the core calls it from the single-threaded flush loop only,
// but an Observer may be shared across other instrumentation goroutines.
type Observer interface {
	ObserveFlushTick(latencyNs uint64, recordsWritten uint64)
	ObserveLoss(ringID uint32, lost uint64)
	ObserveDiscard(ringID uint32, discarded uint64)
	ObserveNotification(severity record.Severity, skipped bool)
	ObserveChunk(ringID uint32)
}
