package record

import (
	"encoding/binary"
	"errors"
)

// ErrInsufficientData is returned by UnmarshalBinary when the input is
// shorter than Size bytes.
var ErrInsufficientData = errors.New("record: insufficient data")

// DumpHeaderPayload is the variant payload of a TypeDumpHeader record
// (spec.md §4.4).
type DumpHeaderPayload struct {
	PreviousDumpOffset         uint64
	RecordsPreviouslyDiscarded uint64
}

// BufferChunkPayload is the variant payload of a TypeBufferChunk record
// (spec.md §4.4).
type BufferChunkPayload struct {
	LastMetadataOffset uint64
	PrevChunkOffset    uint64
	DumpHeaderOffset   uint64
	LostRecords        uint64
	Records            uint64
	SeverityType       Severity
}

// PutDumpHeaderPayload encodes p into the record's payload area.
func (r *Record) PutDumpHeaderPayload(p DumpHeaderPayload) {
	buf := r.Payload[:]
	binary.LittleEndian.PutUint64(buf[0:8], p.PreviousDumpOffset)
	binary.LittleEndian.PutUint64(buf[8:16], p.RecordsPreviouslyDiscarded)
}

// DumpHeaderPayload decodes the record's payload area as a
// DumpHeaderPayload. Valid only when RecType == TypeDumpHeader.
func (r *Record) DumpHeaderPayload() DumpHeaderPayload {
	buf := r.Payload[:]
	return DumpHeaderPayload{
		PreviousDumpOffset:         binary.LittleEndian.Uint64(buf[0:8]),
		RecordsPreviouslyDiscarded: binary.LittleEndian.Uint64(buf[8:16]),
	}
}

// PutBufferChunkPayload encodes p into the record's payload area.
func (r *Record) PutBufferChunkPayload(p BufferChunkPayload) {
	buf := r.Payload[:]
	binary.LittleEndian.PutUint64(buf[0:8], p.LastMetadataOffset)
	binary.LittleEndian.PutUint64(buf[8:16], p.PrevChunkOffset)
	binary.LittleEndian.PutUint64(buf[16:24], p.DumpHeaderOffset)
	binary.LittleEndian.PutUint64(buf[24:32], p.LostRecords)
	binary.LittleEndian.PutUint64(buf[32:40], p.Records)
}

// BufferChunkPayload decodes the record's payload area as a
// BufferChunkPayload. SeverityType is read from the record's own Severity
// field (set alongside the payload by the chunk framer).
func (r *Record) BufferChunkPayload() BufferChunkPayload {
	buf := r.Payload[:]
	return BufferChunkPayload{
		LastMetadataOffset: binary.LittleEndian.Uint64(buf[0:8]),
		PrevChunkOffset:    binary.LittleEndian.Uint64(buf[8:16]),
		DumpHeaderOffset:   binary.LittleEndian.Uint64(buf[16:24]),
		LostRecords:        binary.LittleEndian.Uint64(buf[24:32]),
		Records:            binary.LittleEndian.Uint64(buf[32:40]),
		SeverityType:       r.Severity,
	}
}

// MarshalBinary encodes the record to a Size-byte slice, satisfying
// encoding.BinaryMarshaler.
func (r *Record) MarshalBinary() ([]byte, error) {
	buf := make([]byte, Size)
	buf[0] = byte(r.RecType)
	buf[1] = byte(r.Severity)
	buf[2] = byte(r.Termination)
	binary.LittleEndian.PutUint64(buf[8:16], r.Timestamp)
	binary.LittleEndian.PutUint32(buf[16:20], r.ThreadID)
	binary.LittleEndian.PutUint32(buf[20:24], r.ProcessID)
	copy(buf[24:64], r.Payload[:])
	return buf, nil
}

// UnmarshalBinary decodes a Size-byte slice into the record, satisfying
// encoding.BinaryUnmarshaler.
func (r *Record) UnmarshalBinary(data []byte) error {
	if len(data) < Size {
		return ErrInsufficientData
	}
	r.RecType = Type(data[0])
	r.Severity = Severity(data[1])
	r.Termination = Termination(data[2])
	r.Timestamp = binary.LittleEndian.Uint64(data[8:16])
	r.ThreadID = binary.LittleEndian.Uint32(data[16:20])
	r.ProcessID = binary.LittleEndian.Uint32(data[20:24])
	copy(r.Payload[:], data[24:64])
	return nil
}
