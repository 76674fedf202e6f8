// Package eventio defines the canonical event record and its fixed wire
// encoding. Every platform backend produces this encoding and every
// device read path decodes it, so consumers never see platform structs.
package eventio

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// RecordSize is the encoded size of one Record. The layout matches the
// 64-bit kernel input_event struct, so Linux char device reads decode
// without translation.
const RecordSize = 24

// Raw values for the event type categories that backends emit directly.
const (
	TypeSync          = 0x00
	TypeKey           = 0x01
	TypeRelative      = 0x02
	TypeAbsolute      = 0x03
	TypeMisc          = 0x04
	TypeLED           = 0x11
	TypeRepeat        = 0x14
	TypeForceFeedback = 0x15
)

// ErrTruncated reports a byte stream whose length is not a whole number
// of records.
var ErrTruncated = errors.New("truncated event data")

// Record is one canonical input event: a timestamp split into whole
// seconds and microseconds, a raw event type, a code scoped to that
// type, and a value.
type Record struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// Append encodes r little-endian and appends the 24 bytes to dst.
func Append(dst []byte, r Record) []byte {
	var buf [RecordSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(r.Sec))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(r.Usec))
	binary.LittleEndian.PutUint16(buf[16:18], r.Type)
	binary.LittleEndian.PutUint16(buf[18:20], r.Code)
	binary.LittleEndian.PutUint32(buf[20:24], uint32(r.Value))
	return append(dst, buf[:]...)
}

// Marshal encodes a batch of records into one contiguous buffer.
func Marshal(records []Record) []byte {
	out := make([]byte, 0, len(records)*RecordSize)
	for _, r := range records {
		out = Append(out, r)
	}
	return out
}

// Decode extracts the record at the start of data.
func Decode(data []byte) (Record, error) {
	if len(data) < RecordSize {
		return Record{}, errors.Wrapf(ErrTruncated, "%d bytes", len(data))
	}
	return Record{
		Sec:   int64(binary.LittleEndian.Uint64(data[0:8])),
		Usec:  int64(binary.LittleEndian.Uint64(data[8:16])),
		Type:  binary.LittleEndian.Uint16(data[16:18]),
		Code:  binary.LittleEndian.Uint16(data[18:20]),
		Value: int32(binary.LittleEndian.Uint32(data[20:24])),
	}, nil
}

// Records decodes a buffer of consecutive records. The buffer must hold a
// whole number of records; leftover bytes mean the producer and consumer
// disagree about the layout, which is never recoverable.
func Records(data []byte) ([]Record, error) {
	if len(data)%RecordSize != 0 {
		return nil, errors.Wrapf(ErrTruncated, "%d bytes", len(data))
	}
	out := make([]Record, 0, len(data)/RecordSize)
	for off := 0; off < len(data); off += RecordSize {
		r, err := Decode(data[off:])
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
