// Package tracedump implements the write-preparation core of a
// multi-producer, single-consumer trace dumper: for each flush tick it
// walks every attached shared-memory ring, computes how much of it is
// safely dumpable without blocking the producer, frames the result into a
// scatter/gather list alongside a secondary list of complete
// above-threshold traces for real-time notification, and hands both to an
// external vectored writer. Shared-memory attach/detach, the writer's
// actual file descriptor, and process supervision are all out-of-scope
// external collaborators; this package only prepares what they write.
package tracedump

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/yitzikc/tracedump/internal/chunk"
	"github.com/yitzikc/tracedump/internal/clock"
	"github.com/yitzikc/tracedump/internal/delta"
	"github.com/yitzikc/tracedump/internal/interfaces"
	"github.com/yitzikc/tracedump/internal/iovec"
	"github.com/yitzikc/tracedump/internal/notify"
	"github.com/yitzikc/tracedump/internal/record"
)

// Dumper is the Flush Orchestrator (spec.md §4.6): it owns no shared
// memory itself, only the scratch state needed to assemble one tick's
// scatter/gather lists from a Registry's rings.
type Dumper struct {
	registry interfaces.Registry
	writer   interfaces.Writer
	clock    clock.Clock
	config   *Config

	scanner notify.Scanner
	framer  chunk.Framer

	main          *iovec.List
	notifications *iovec.List
	dumpHeaderRec record.Record

	lastDumpOffset     uint64
	lastMetadataOffset uint64
}

// NewDumper builds a Dumper over registry, writing through writer,
// configured by cfg (DefaultConfig if nil).
func NewDumper(registry interfaces.Registry, writer interfaces.Writer, cfg *Config) *Dumper {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	retry := notify.RetryPolicy{
		MaxRetries: cfg.NumRetriesOnPartialRecord,
		Sleep:      time.Sleep,
		Wait:       cfg.RetryWaitLen,
	}
	return &Dumper{
		registry:      registry,
		writer:        writer,
		clock:         clock.New(),
		config:        cfg,
		scanner:       notify.Scanner{Logger: cfg.Logger, Retry: retry, Observer: cfg.Observer},
		main:          iovec.New(8),
		notifications: iovec.New(4),
	}
}

// tickRing is the per-ring scratch accumulated during FlushTick, applied
// to the ring's ReaderState only once the writer confirms persistence.
type tickRing struct {
	reader *interfaces.ReaderState
	delta  delta.Delta
}

// FlushTick assembles one tick's main scatter/gather list (a dump header
// followed by each ring's buffer-chunk header and record span) and a
// secondary notification list (complete traces at or above threshold),
// without mutating any ring's persistent reader state. It returns both
// lists and a commit closure: call commit(true) once the writer has
// confirmed persistence to advance reader cursors, or commit(false) (or
// not at all) to leave every ring's state untouched so the same records
// are reconsidered next tick (spec.md §4.6, invariant 3: no record is
// considered dumped until the writer confirms it).
func (d *Dumper) FlushTick(now uint64) (mainIov []unix.Iovec, notificationIov []unix.Iovec, commit func(ok bool)) {
	cfg := d.config
	d.main.Reset()
	d.notifications.Reset()

	fileRecordsWritten := d.writer.LastFlushOffset()
	recordsWrittenSoFar := uint64(1) // the dump header itself

	var recordsPreviouslyDiscarded uint64
	for _, h := range d.registry.Rings() {
		recordsPreviouslyDiscarded += h.Reader.RecordsDiscarded
	}

	dumpHeaderOffset := fileRecordsWritten
	d.framer.DumpHeader(d.main, &d.dumpHeaderRec, now, d.lastDumpOffset, recordsPreviouslyDiscarded)

	nextLastMetadataOffset := d.lastMetadataOffset
	var ticks []tickRing

	for _, h := range d.registry.Rings() {
		desc := h.Ring.Descriptor()
		storage := h.Ring.Storage()
		committed := h.Ring.Committed()
		reader := h.Reader

		delt, diag := delta.Calculate(desc, storage, committed, reader, cfg.MaxRecordsPerChunk)
		if diag != nil {
			cfg.Logger.Error("ring head record carries SeverityInvalid despite a committed write",
				"ring_id", diag.RingID, "process_id", diag.ProcessID, "last_written", diag.LastWritten)
			continue
		}
		if delt.Lost > 0 {
			cfg.Logger.Warn("records lost before the dumper could read them",
				"ring_id", desc.ID, "lost", delt.Lost)
			if cfg.Observer != nil {
				cfg.Observer.ObserveLoss(desc.ID, delt.Lost)
			}
		}

		headerOffset := fileRecordsWritten + recordsWrittenSoFar
		d.framer.BufferChunkHeader(d.main, reader, desc, storage, delt, now,
			dumpHeaderOffset, nextLastMetadataOffset, recordsWrittenSoFar, fileRecordsWritten)
		nextLastMetadataOffset = headerOffset
		recordsWrittenSoFar += 1 + delt.Total
		if cfg.Observer != nil {
			cfg.Observer.ObserveChunk(desc.ID)
		}

		if delt.Total > 0 {
			d.scanner.Scan(desc, storage, delt.StartIndex, delt.Total, cfg.ThresholdSeverity, d.notifications)
		}

		ticks = append(ticks, tickRing{reader: reader, delta: delt})
	}

	committedDumpOffset := dumpHeaderOffset
	committedMetadataOffset := nextLastMetadataOffset

	commit = func(ok bool) {
		if !ok {
			return
		}
		d.lastDumpOffset = committedDumpOffset
		d.lastMetadataOffset = committedMetadataOffset
		for _, t := range ticks {
			t.reader.CurrentReadCounter += t.delta.Total
			t.reader.LastFlushOffset = t.reader.NextFlushOffset
		}
	}

	return d.main.Entries(), d.notifications.Entries(), commit
}

// RunTick runs one complete flush cycle: it assembles the tick via
// FlushTick, hands the main list to the writer, and commits reader state
// only if the write succeeds. The notification list is handed to the
// writer only when non-empty, since an empty scatter/gather call is a
// no-op some writers reject (spec.md §4.5).
func (d *Dumper) RunTick(now uint64) error {
	start := d.clock.NowMonotonicNS()
	recordsBefore := d.writer.RecordsWritten()

	mainIov, notificationIov, commit := d.FlushTick(now)

	if err := d.writer.AppendIovec(mainIov); err != nil {
		commit(false)
		return WrapError("FLUSH_TICK", err)
	}
	commit(true)

	if len(notificationIov) > 0 {
		if err := d.writer.AppendIovec(notificationIov); err != nil {
			d.config.Logger.Warn("failed to append notification iovec", "error", err)
		}
	}

	if d.config.Observer != nil {
		latency := d.clock.NowMonotonicNS() - start
		d.config.Observer.ObserveFlushTick(latency, d.writer.RecordsWritten()-recordsBefore)
	}
	return nil
}
