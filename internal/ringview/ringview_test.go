package ringview

import (
	"testing"

	"github.com/yitzikc/tracedump/internal/record"
)

func newTestView(capacity uint32) (View, []record.Record) {
	storage := make([]record.Record, capacity)
	for i := range storage {
		storage[i].Timestamp = uint64(i)
	}
	return New(storage, capacity-1), storage
}

func TestCapacity(t *testing.T) {
	v, _ := newTestView(8)
	if got := v.Capacity(); got != 8 {
		t.Errorf("Capacity() = %d, want 8", got)
	}
}

func TestIndexWraps(t *testing.T) {
	v, _ := newTestView(8)
	if got := v.Index(10); got != 2 {
		t.Errorf("Index(10) = %d, want 2", got)
	}
}

func TestSlotAtReturnsStorageSlot(t *testing.T) {
	v, storage := newTestView(8)
	rec := v.SlotAt(3)
	if rec != &storage[3] {
		t.Fatal("SlotAt(3) did not return storage[3]")
	}
}

func TestSlotAtWraps(t *testing.T) {
	v, storage := newTestView(8)
	rec := v.SlotAt(9)
	if rec != &storage[1] {
		t.Errorf("SlotAt(9) did not wrap to storage[1] (9 mod 8 = 1)")
	}
}
