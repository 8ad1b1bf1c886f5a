// Package delta computes, purely and lock-free, how much of a ring is
// dumpable on one flush tick (spec.md §4.3).
//
// Grounded line-for-line on
// original_source/trace_dumper/write_prep.c:calculate_delta.
package delta

import (
	"github.com/yitzikc/tracedump/internal/interfaces"
	"github.com/yitzikc/tracedump/internal/record"
	"github.com/yitzikc/tracedump/internal/ringview"
)

// Delta is the transient, per-ring-per-tick result of Calculate
// (spec.md §3).
type Delta struct {
	// Lost is the number of records the producer overwrote before the
	// dumper could read them this tick.
	Lost uint64
	// RemainingBeforeLoss is how much backlog remains before the next
	// record would be lost, when there is no overrun.
	RemainingBeforeLoss uint64
	// Total is the number of records dumpable this tick, capped at
	// maxRecordsPerChunk.
	Total uint64
	// BeyondChunkSize is backlog deferred to a future tick.
	BeyondChunkSize uint64
	// UpToBufEnd and FromBufStart are the two halves of a possible wrap
	// split; their sum equals Total.
	UpToBufEnd   uint64
	FromBufStart uint64
	// StartIndex is the physical slot index of the first dumpable record.
	StartIndex uint32
}

// Diagnostic is returned when the ring's head slot carries
// SeverityInvalid despite a committed counter — a correctness anomaly
// (spec.md invariant 4, §7 kind 2) that is logged and causes the ring to
// be skipped for the tick, not a fatal error.
type Diagnostic struct {
	RingID      uint32
	ProcessID   uint32
	LastWritten uint64
}

// Calculate computes the Delta for one ring. It is a pure function of
// ring state at call time: no mutation, no I/O (spec.md §4.3).
func Calculate(desc interfaces.RingDescriptor, storage []record.Record, committed uint64, reader *interfaces.ReaderState, maxRecordsPerChunk uint64) (Delta, *Diagnostic) {
	view := ringview.New(storage, desc.CapacityMask)
	headRecord := view.SlotAt(committed)

	if headRecord.Severity == record.SeverityInvalid {
		var diag *Diagnostic
		if committed != ^uint64(0) {
			diag = &Diagnostic{RingID: desc.ID, ProcessID: desc.ProducerPID, LastWritten: committed}
		}
		return Delta{RemainingBeforeLoss: uint64(desc.Capacity)}, diag
	}

	// Invariant 1: no 64-bit counter wrap. This can only be violated by a
	// corrupted producer; treated as impossible per spec.md §9.
	backlog := committed + 1 - reader.CurrentReadCounter

	overrun := int64(backlog) - int64(desc.Capacity)
	var lost, remainingBeforeLoss uint64
	if overrun > 0 {
		lost = uint64(overrun)
	} else {
		remainingBeforeLoss = uint64(-overrun)
	}

	total := backlog
	if total > maxRecordsPerChunk {
		total = maxRecordsPerChunk
	}
	beyondChunkSize := backlog - total

	startIndex := view.Index(reader.CurrentReadCounter)
	upToBufEnd := total
	if remaining := uint64(desc.Capacity) - uint64(startIndex); upToBufEnd > remaining {
		upToBufEnd = remaining
	}
	fromBufStart := total - upToBufEnd

	return Delta{
		Lost:                lost,
		RemainingBeforeLoss: remainingBeforeLoss,
		Total:               total,
		BeyondChunkSize:     beyondChunkSize,
		UpToBufEnd:          upToBufEnd,
		FromBufStart:        fromBufStart,
		StartIndex:          startIndex,
	}, nil
}
