// Package chunk assembles the dump-header and per-ring buffer-chunk
// header records, threading them into the scatter/gather list for one
// flush tick (spec.md §4.4).
//
// Grounded line-for-line on original_source/trace_dumper/write_prep.c's
// init_dump_header and init_buffer_chunk_record.
package chunk

import (
	"github.com/yitzikc/tracedump/internal/delta"
	"github.com/yitzikc/tracedump/internal/interfaces"
	"github.com/yitzikc/tracedump/internal/iovec"
	"github.com/yitzikc/tracedump/internal/record"
)

// Framer emits dump-header and buffer-chunk header records into an
// iovec.List, referencing ring memory directly rather than copying it.
type Framer struct{}

// DumpHeader emits the single per-tick dump header (spec.md §4.4,
// "Dump header"). dumpHeaderRec is scratch storage owned by the caller,
// reused across ticks like the ring's own ChunkHeader.
func (Framer) DumpHeader(out *iovec.List, dumpHeaderRec *record.Record, curTS uint64, lastFlushOffset uint64, recordsPreviouslyDiscarded uint64) {
	*dumpHeaderRec = record.Record{
		RecType:     record.TypeDumpHeader,
		Termination: record.TerminationFirst | record.TerminationLast,
		Timestamp:   curTS,
	}
	dumpHeaderRec.PutDumpHeaderPayload(record.DumpHeaderPayload{
		PreviousDumpOffset:         lastFlushOffset,
		RecordsPreviouslyDiscarded: recordsPreviouslyDiscarded,
	})
	out.Append(record.HeaderBytes(dumpHeaderRec))
}

// BufferChunkHeader emits one ring's buffer-chunk header plus the iovec
// entries describing its (possibly wrap-split) record slice (spec.md
// §4.4, "Buffer-chunk header"). It returns nothing; the caller accounts
// for the header (1 record) plus delta.Total records written this tick.
func (Framer) BufferChunkHeader(
	out *iovec.List,
	reader *interfaces.ReaderState,
	desc interfaces.RingDescriptor,
	storage []record.Record,
	d delta.Delta,
	curTS uint64,
	dumpHeaderOffset uint64,
	lastMetadataOffset uint64,
	recordsWrittenSoFar uint64,
	fileRecordsWritten uint64,
) {
	hdr := &reader.ChunkHeader
	*hdr = record.Record{
		RecType:     record.TypeBufferChunk,
		Termination: record.TerminationFirst | record.TerminationLast,
		Timestamp:   curTS,
		ProcessID:   desc.ProducerPID,
		Severity:    desc.SeverityTag,
	}
	hdr.PutBufferChunkPayload(record.BufferChunkPayload{
		LastMetadataOffset: lastMetadataOffset,
		PrevChunkOffset:    reader.LastFlushOffset,
		DumpHeaderOffset:   dumpHeaderOffset,
		LostRecords:        d.Lost + reader.RecordsDiscarded,
		Records:            d.Total,
		SeverityType:       desc.SeverityTag,
	})

	reader.NextFlushOffset = fileRecordsWritten + recordsWrittenSoFar

	out.Append(record.HeaderBytes(hdr))

	if d.UpToBufEnd > 0 {
		out.Append(record.AsBytes(storage[d.StartIndex : d.StartIndex+uint32(d.UpToBufEnd)]))
	}
	if d.FromBufStart > 0 {
		out.Append(record.AsBytes(storage[0:d.FromBufStart]))
	}
}
