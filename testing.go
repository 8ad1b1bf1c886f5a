package tracedump

import (
	"sync"

	"golang.org/x/sys/unix"

	"github.com/yitzikc/tracedump/internal/interfaces"
	"github.com/yitzikc/tracedump/internal/record"
)

// MockWriter is an in-process interfaces.Writer that records every iovec
// list handed to it, for use in tests that exercise Dumper.FlushTick
// without a real file descriptor.
type MockWriter struct {
	mu sync.Mutex

	// FailNext, when true, makes the next AppendIovec call fail and
	// resets itself to false.
	FailNext bool

	Calls            [][]unix.Iovec
	recordsWritten   uint64
	lastFlushOffset  uint64
	recordsDiscarded uint64
}

// NewMockWriter returns a MockWriter ready for use.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// AppendIovec records the call and advances RecordsWritten/LastFlushOffset
// by the number of whole records the iovec list describes, unless FailNext
// was set.
func (w *MockWriter) AppendIovec(iov []unix.Iovec) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.FailNext {
		w.FailNext = false
		return NewError("MOCK_WRITE", ErrCodeWriterFailure, "mock writer configured to fail")
	}

	cp := make([]unix.Iovec, len(iov))
	copy(cp, iov)
	w.Calls = append(w.Calls, cp)

	var totalBytes uint64
	for _, e := range iov {
		totalBytes += e.Len
	}
	records := totalBytes / record.Size
	w.recordsWritten += records
	w.lastFlushOffset += records
	return nil
}

// RecordsWritten returns the cumulative count of records successfully
// appended.
func (w *MockWriter) RecordsWritten() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.recordsWritten
}

// LastFlushOffset returns the cumulative record offset of the last
// successful append.
func (w *MockWriter) LastFlushOffset() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastFlushOffset
}

// RecordsDiscarded returns the writer-side discard count (always 0 for
// MockWriter; discards in this core happen at the reader, not the writer).
func (w *MockWriter) RecordsDiscarded() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.recordsDiscarded
}

// CallCount returns the number of successful AppendIovec calls recorded in
// Calls. Calls that returned an error (FailNext) are not recorded.
func (w *MockWriter) CallCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.Calls)
}

// mockRing is an in-process interfaces.Ring backed by a plain slice, with
// a plain (non-atomic) committed counter a test can drive directly.
type mockRing struct {
	desc      interfaces.RingDescriptor
	storage   []record.Record
	committed uint64
}

func (r *mockRing) Descriptor() interfaces.RingDescriptor { return r.desc }
func (r *mockRing) Committed() uint64                     { return r.committed }
func (r *mockRing) Storage() []record.Record              { return r.storage }

// MockRegistry is an in-process interfaces.Registry over mockRing values,
// for tests that need a multi-ring Dumper.FlushTick fixture without real
// shared memory.
type MockRegistry struct {
	handles []interfaces.RingHandle
}

// NewMockRegistry returns an empty MockRegistry.
func NewMockRegistry() *MockRegistry {
	return &MockRegistry{}
}

// AddRing creates and registers a ring of the given capacity (must be a
// power of two) tagged with severity, returning the handle's mutable parts
// so the test can drive the producer side (write into Storage, advance
// SetCommitted) and inspect the reader side (Reader).
func (m *MockRegistry) AddRing(id uint32, capacity uint32, severity record.Severity) (storage []record.Record, setCommitted func(uint64), reader *interfaces.ReaderState) {
	storage = make([]record.Record, capacity)
	ring := &mockRing{
		desc: interfaces.RingDescriptor{
			ID:           id,
			Capacity:     capacity,
			CapacityMask: capacity - 1,
			SeverityTag:  severity,
		},
		storage:   storage,
		committed: ^uint64(0),
	}
	readerState := &interfaces.ReaderState{}
	m.handles = append(m.handles, interfaces.RingHandle{Ring: ring, Reader: readerState})
	return storage, func(c uint64) { ring.committed = c }, readerState
}

// Rings implements interfaces.Registry.
func (m *MockRegistry) Rings() []interfaces.RingHandle {
	return m.handles
}
