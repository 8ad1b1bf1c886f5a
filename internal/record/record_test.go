package record

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecordSize(t *testing.T) {
	var r Record
	if got := len(HeaderBytes(&r)); got != Size {
		t.Errorf("HeaderBytes length = %d, want %d", got, Size)
	}
}

func TestSameTrace(t *testing.T) {
	a := Record{Timestamp: 10, ThreadID: 1, Severity: SeverityWarn}
	b := Record{Timestamp: 10, ThreadID: 1, Severity: SeverityWarn}
	if !a.SameTrace(&b) {
		t.Error("expected matching (timestamp, thread, severity) to be the same trace")
	}

	c := Record{Timestamp: 11, ThreadID: 1, Severity: SeverityWarn}
	if a.SameTrace(&c) {
		t.Error("expected differing timestamp to end the trace")
	}
}

func TestEndsTrace(t *testing.T) {
	start := Record{Timestamp: 5, ThreadID: 2, Severity: SeverityError}

	last := Record{Timestamp: 5, ThreadID: 2, Severity: SeverityError, Termination: TerminationLast}
	if !last.EndsTrace(&start) {
		t.Error("TerminationLast should end the trace")
	}

	other := Record{Timestamp: 6, ThreadID: 2, Severity: SeverityError}
	if !other.EndsTrace(&start) {
		t.Error("a record from a different trace should count as ending the previous one")
	}

	mid := Record{Timestamp: 5, ThreadID: 2, Severity: SeverityError}
	if mid.EndsTrace(&start) {
		t.Error("a continuing record with no TerminationLast should not end the trace")
	}
}

func TestIsTraceStart(t *testing.T) {
	tests := []struct {
		name      string
		rec       Record
		threshold Severity
		want      bool
	}{
		{"typed, first, above threshold", Record{RecType: TypeTyped, Termination: TerminationFirst, Severity: SeverityError}, SeverityWarn, true},
		{"typed, first, below threshold", Record{RecType: TypeTyped, Termination: TerminationFirst, Severity: SeverityInfo}, SeverityWarn, false},
		{"typed, not first", Record{RecType: TypeTyped, Severity: SeverityError}, SeverityWarn, false},
		{"header record", Record{RecType: TypeBufferChunk, Termination: TerminationFirst, Severity: SeverityError}, SeverityWarn, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.IsTraceStart(tt.threshold); got != tt.want {
				t.Errorf("IsTraceStart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAsBytesEmpty(t *testing.T) {
	if got := AsBytes(nil); got != nil {
		t.Errorf("AsBytes(nil) = %v, want nil", got)
	}
}

func TestAsBytesContiguous(t *testing.T) {
	recs := []Record{
		{RecType: TypeTyped, Timestamp: 1},
		{RecType: TypeTyped, Timestamp: 2},
	}
	b := AsBytes(recs)
	if len(b) != 2*Size {
		t.Fatalf("AsBytes length = %d, want %d", len(b), 2*Size)
	}

	var roundTrip Record
	if err := roundTrip.UnmarshalBinary(b[Size:]); err != nil {
		t.Fatal(err)
	}
	if roundTrip.Timestamp != 2 {
		t.Errorf("second record timestamp = %d, want 2", roundTrip.Timestamp)
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name string
		want Severity
		ok   bool
	}{
		{"debug", SeverityDebug, true},
		{"WARN", SeverityWarn, true},
		{"warning", SeverityWarn, true},
		{"bogus", SeverityInvalid, false},
	}
	for _, tt := range tests {
		got, ok := ParseSeverity(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseSeverity(%q) = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	want := Record{
		RecType:     TypeTyped,
		Severity:    SeverityError,
		Termination: TerminationFirst | TerminationLast,
		Timestamp:   123456789,
		ThreadID:    7,
		ProcessID:   99,
	}
	copy(want.Payload[:], []byte("hello world"))

	data, err := want.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != Size {
		t.Fatalf("marshaled length = %d, want %d", len(data), Size)
	}

	var got Record
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalInsufficientData(t *testing.T) {
	var r Record
	if err := r.UnmarshalBinary(make([]byte, Size-1)); err != ErrInsufficientData {
		t.Errorf("UnmarshalBinary() error = %v, want ErrInsufficientData", err)
	}
}

func TestDumpHeaderPayloadRoundTrip(t *testing.T) {
	var r Record
	want := DumpHeaderPayload{PreviousDumpOffset: 42, RecordsPreviouslyDiscarded: 7}
	r.PutDumpHeaderPayload(want)
	if got := r.DumpHeaderPayload(); got != want {
		t.Errorf("DumpHeaderPayload() = %+v, want %+v", got, want)
	}
}

func TestBufferChunkPayloadRoundTrip(t *testing.T) {
	r := Record{Severity: SeverityWarn}
	want := BufferChunkPayload{
		LastMetadataOffset: 1,
		PrevChunkOffset:    2,
		DumpHeaderOffset:   3,
		LostRecords:        4,
		Records:            5,
		SeverityType:       SeverityWarn,
	}
	r.PutBufferChunkPayload(want)
	if got := r.BufferChunkPayload(); got != want {
		t.Errorf("BufferChunkPayload() = %+v, want %+v", got, want)
	}
}
