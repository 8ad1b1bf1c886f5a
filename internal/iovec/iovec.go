// Package iovec provides a grow-on-demand scatter/gather list, reused
// across flush ticks to avoid per-tick allocation.
//
// Grounded on original_source/trace_dumper/write_prep.c's
// increase_iov_if_necessary, and on the teacher's internal/queue/pool.go
// size-bucketed sync.Pool — same "avoid hot-path allocation" concern,
// applied here to iovec slice growth.
package iovec

import "golang.org/x/sys/unix"

// List is a reusable []unix.Iovec with capacity-doubling growth.
type List struct {
	entries []unix.Iovec
}

// New returns an empty List pre-sized for initialCap entries.
func New(initialCap int) *List {
	return &List{entries: make([]unix.Iovec, 0, initialCap)}
}

// Len returns the number of entries currently in the list.
func (l *List) Len() int { return len(l.entries) }

// Entries returns the current entries, valid until the next Append/Reset.
func (l *List) Entries() []unix.Iovec { return l.entries }

// Reserve ensures capacity for at least n more entries, doubling the
// backing array when necessary (increase_iov_if_necessary).
func (l *List) Reserve(n int) {
	need := len(l.entries) + n
	if need <= cap(l.entries) {
		return
	}
	newCap := cap(l.entries) * 2
	if newCap < need {
		newCap = need
	}
	grown := make([]unix.Iovec, len(l.entries), newCap)
	copy(grown, l.entries)
	l.entries = grown
}

// Append reserves space for one more entry and appends it.
func (l *List) Append(base []byte) {
	l.Reserve(1)
	l.entries = append(l.entries, unix.Iovec{Base: &base[0], Len: uint64(len(base))})
}

// Reset empties the list while keeping its backing array, for reuse
// across flush ticks.
func (l *List) Reset() {
	l.entries = l.entries[:0]
}

// TotalLen returns the sum of all entries' lengths in bytes.
func (l *List) TotalLen() uint64 {
	var total uint64
	for _, e := range l.entries {
		total += e.Len
	}
	return total
}
