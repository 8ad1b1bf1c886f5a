// Package ringview provides read-only, index-masked addressing of a
// producer's ring buffer (spec.md §4.2).
//
// All accesses treat the underlying storage as concurrently mutable: the
// producer may overwrite any slot the reader's current-read-counter bound
// has not yet passed. Grounded on original_source/trace_dumper/
// write_prep.c's current_read_index, n_records_after, and previous_record.
package ringview

import "github.com/yitzikc/tracedump/internal/record"

// View is a masked address space over a ring's backing storage.
type View struct {
	storage []record.Record
	mask    uint32
}

// New returns a View over storage, masking indices with capacityMask.
// storage must have length equal to capacity (capacityMask+1).
func New(storage []record.Record, capacityMask uint32) View {
	return View{storage: storage, mask: capacityMask}
}

// Capacity returns the ring's record capacity.
func (v View) Capacity() uint32 {
	return uint32(len(v.storage))
}

// Index masks counter into a physical slot index.
func (v View) Index(counter uint64) uint32 {
	return uint32(counter) & v.mask
}

// SlotAt returns the record at the slot identified by counter.
func (v View) SlotAt(counter uint64) *record.Record {
	return &v.storage[v.Index(counter)]
}
