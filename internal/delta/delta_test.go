package delta

import (
	"testing"

	"github.com/yitzikc/tracedump/internal/interfaces"
	"github.com/yitzikc/tracedump/internal/record"
)

func newDesc(capacity uint32) interfaces.RingDescriptor {
	return interfaces.RingDescriptor{ID: 1, Capacity: capacity, CapacityMask: capacity - 1}
}

func fillStorage(capacity uint32, committed uint64) []record.Record {
	storage := make([]record.Record, capacity)
	for i := uint64(0); i <= committed; i++ {
		idx := uint32(i) & (capacity - 1)
		storage[idx] = record.Record{RecType: record.TypeTyped, Severity: record.SeverityInfo, Timestamp: i}
	}
	return storage
}

func TestCalculateInvalidHead(t *testing.T) {
	desc := newDesc(8)
	storage := make([]record.Record, 8) // all SeverityInvalid
	reader := &interfaces.ReaderState{}

	d, diag := Calculate(desc, storage, 3, reader, 100)
	if diag == nil {
		t.Fatal("expected a Diagnostic for an invalid head record")
	}
	if diag.LastWritten != 3 {
		t.Errorf("diag.LastWritten = %d, want 3", diag.LastWritten)
	}
	if d.RemainingBeforeLoss != uint64(desc.Capacity) {
		t.Errorf("RemainingBeforeLoss = %d, want %d", d.RemainingBeforeLoss, desc.Capacity)
	}
}

func TestCalculateNeverWrittenNoDiagnostic(t *testing.T) {
	desc := newDesc(8)
	storage := make([]record.Record, 8)
	reader := &interfaces.ReaderState{}

	_, diag := Calculate(desc, storage, ^uint64(0), reader, 100)
	if diag != nil {
		t.Error("a never-written ring (committed == sentinel) should not raise a Diagnostic")
	}
}

func TestCalculateCleanRead(t *testing.T) {
	desc := newDesc(8)
	storage := fillStorage(8, 3)
	reader := &interfaces.ReaderState{CurrentReadCounter: 0}

	d, diag := Calculate(desc, storage, 3, reader, 100)
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %+v", diag)
	}
	if d.Total != 4 {
		t.Errorf("Total = %d, want 4", d.Total)
	}
	if d.Lost != 0 {
		t.Errorf("Lost = %d, want 0", d.Lost)
	}
	if d.UpToBufEnd+d.FromBufStart != d.Total {
		t.Errorf("split %d+%d != Total %d", d.UpToBufEnd, d.FromBufStart, d.Total)
	}
}

func TestCalculateOverrunLoss(t *testing.T) {
	desc := newDesc(8)
	storage := fillStorage(8, 20)
	reader := &interfaces.ReaderState{CurrentReadCounter: 0}

	d, _ := Calculate(desc, storage, 20, reader, 100)
	backlog := uint64(21)
	wantLost := backlog - uint64(desc.Capacity)
	if d.Lost != wantLost {
		t.Errorf("Lost = %d, want %d", d.Lost, wantLost)
	}
	if d.RemainingBeforeLoss != 0 {
		t.Errorf("RemainingBeforeLoss = %d, want 0 when overrunning", d.RemainingBeforeLoss)
	}
}

func TestCalculateLossComplementarity(t *testing.T) {
	desc := newDesc(8)
	storage := fillStorage(8, 5)
	reader := &interfaces.ReaderState{CurrentReadCounter: 2}

	d, _ := Calculate(desc, storage, 5, reader, 100)
	if d.Lost > 0 && d.RemainingBeforeLoss > 0 {
		t.Errorf("Lost and RemainingBeforeLoss cannot both be nonzero: %+v", d)
	}
}

func TestCalculateChunkCap(t *testing.T) {
	desc := newDesc(16)
	storage := fillStorage(16, 10)
	reader := &interfaces.ReaderState{CurrentReadCounter: 0}

	d, _ := Calculate(desc, storage, 10, reader, 4)
	if d.Total != 4 {
		t.Errorf("Total = %d, want capped at maxRecordsPerChunk=4", d.Total)
	}
	backlog := uint64(11)
	if d.BeyondChunkSize != backlog-4 {
		t.Errorf("BeyondChunkSize = %d, want %d", d.BeyondChunkSize, backlog-4)
	}
}

func TestCalculateWrapSplit(t *testing.T) {
	desc := newDesc(8)
	storage := fillStorage(8, 9) // wrapped once; head at slot 1
	reader := &interfaces.ReaderState{CurrentReadCounter: 6}

	d, _ := Calculate(desc, storage, 9, reader, 100)
	if d.StartIndex != 6 {
		t.Fatalf("StartIndex = %d, want 6", d.StartIndex)
	}
	if d.UpToBufEnd != 2 {
		t.Errorf("UpToBufEnd = %d, want 2 (slots 6,7)", d.UpToBufEnd)
	}
	if d.FromBufStart != d.Total-2 {
		t.Errorf("FromBufStart = %d, want %d", d.FromBufStart, d.Total-2)
	}
}
