// Package record defines the fixed-size trace record wire format shared by
// producers (out of scope) and the dumper's write-preparation core.
package record

import (
	"strings"
	"unsafe"
)

// Size is the fixed on-the-wire size of a record in bytes (R).
const Size = 64

// Type identifies how a record's payload is interpreted.
type Type uint8

const (
	// TypeTyped is a producer-emitted application record.
	TypeTyped Type = iota
	// TypeDumpHeader frames one flush tick.
	TypeDumpHeader
	// TypeBufferChunk frames one ring's contribution to a flush tick.
	TypeBufferChunk
)

func (t Type) String() string {
	switch t {
	case TypeTyped:
		return "TYPED"
	case TypeDumpHeader:
		return "DUMP_HEADER"
	case TypeBufferChunk:
		return "BUFFER_CHUNK"
	default:
		return "UNKNOWN"
	}
}

// Severity is an ordered severity enum. SeverityInvalid is the sentinel
// meaning "never written" (invariant 4 in spec.md §3).
type Severity uint8

const (
	SeverityInvalid Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarn
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInvalid:
		return "INVALID"
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarn:
		return "WARN"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity parses a severity name (case-insensitive), for CLI flags
// and config files. It returns SeverityInvalid and false if name is not
// recognized.
func ParseSeverity(name string) (Severity, bool) {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return SeverityDebug, true
	case "INFO":
		return SeverityInfo, true
	case "WARN", "WARNING":
		return SeverityWarn, true
	case "ERROR":
		return SeverityError, true
	case "FATAL":
		return SeverityFatal, true
	default:
		return SeverityInvalid, false
	}
}

// Termination is a bitset marking a record's position within a logical
// trace (spec.md §3, §6).
type Termination uint8

const (
	// TerminationFirst marks the first physical record of a logical trace.
	TerminationFirst Termination = 1 << 0
	// TerminationLast marks the last physical record of a logical trace.
	TerminationLast Termination = 1 << 1
)

// Record is the fixed-size wire record. Header records (DUMP_HEADER,
// BUFFER_CHUNK) share this layout with typed records, distinguished by
// RecType (spec.md §6).
type Record struct {
	RecType     Type
	Severity    Severity
	Termination Termination
	Timestamp   uint64
	ThreadID    uint32
	ProcessID   uint32
	// Payload carries the variant, RecType-dependent body. For TypeTyped
	// records this is producer-defined and opaque to the dumper core.
	Payload [40]byte
}

// SameTrace reports whether r and other share the (timestamp, thread,
// severity) triple that defines a logical trace (spec.md invariant 5).
func (r *Record) SameTrace(other *Record) bool {
	return r.Timestamp == other.Timestamp &&
		r.ThreadID == other.ThreadID &&
		r.Severity == other.Severity
}

// EndsTrace reports whether r is the last physical record of the trace
// started by start: either r carries TerminationLast, or r no longer
// belongs to the same trace as start.
func (r *Record) EndsTrace(start *Record) bool {
	return r.Termination&TerminationLast != 0 || !r.SameTrace(start)
}

// IsTraceStart reports whether r opens a trace of interest: a typed
// record, marked First, at or above threshold.
func (r *Record) IsTraceStart(threshold Severity) bool {
	return r.RecType == TypeTyped &&
		r.Termination&TerminationFirst != 0 &&
		r.Severity >= threshold
}

// AsBytes returns a byte-slice view onto a contiguous run of records
// without copying, so scatter/gather entries can reference ring memory
// directly. Mirrors the teacher's use of unsafe.Pointer to address
// mmap'd regions (internal/queue/runner.go, internal/uring/minimal.go)
// rather than marshaling each record into a scratch buffer, which would
// defeat the purpose of vectored I/O.
func AsBytes(recs []Record) []byte {
	if len(recs) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&recs[0])), len(recs)*Size)
}

// HeaderBytes is AsBytes for a single reused header record (the dump
// header and each ring's buffer-chunk header are scratch fields owned by
// the caller, not slice elements).
func HeaderBytes(rec *Record) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(rec)), Size)
}
