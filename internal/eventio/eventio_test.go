package eventio

import (
	"errors"
	"testing"
)

// TestSplit tests the timestamp split against values where naive rounding
// would produce a different answer.
func TestSplit(t *testing.T) {
	cases := []struct {
		seconds float64
		sec     int64
		usec    int64
	}{
		{2000.0002, 2000, 199},
		{100.000002, 100, 1},
		{199.2, 199, 199999},
		{0, 0, 0},
		{100, 100, 0},
		{0.001, 0, 1000},
	}
	for _, c := range cases {
		sec, usec := Split(c.seconds)
		if sec != c.sec || usec != c.usec {
			t.Errorf("Expected Split(%v) = (%d, %d), got (%d, %d)",
				c.seconds, c.sec, c.usec, sec, usec)
		}
	}
}

// TestNow tests that the current time splits into a sane pair.
func TestNow(t *testing.T) {
	sec, usec := Now()
	if sec <= 0 {
		t.Errorf("Expected positive seconds, got %d", sec)
	}
	if usec < 0 || usec >= 1000000 {
		t.Errorf("Expected microseconds in [0, 1e6), got %d", usec)
	}
}

// TestRoundTrip tests that encoding and decoding preserve every field,
// including negative values.
func TestRoundTrip(t *testing.T) {
	in := Record{Sec: 1718956898, Usec: 541234, Type: 0x02, Code: 0x08, Value: -2}
	data := Append(nil, in)
	if len(data) != RecordSize {
		t.Fatalf("Expected %d bytes, got %d", RecordSize, len(data))
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if out != in {
		t.Errorf("Expected %+v, got %+v", in, out)
	}
}

// TestMarshalRecords tests batch encoding and the stride decode.
func TestMarshalRecords(t *testing.T) {
	batch := []Record{
		{Sec: 100, Usec: 1, Type: 0x04, Code: 0x04, Value: 589825},
		{Sec: 100, Usec: 1, Type: 0x01, Code: 0x110, Value: 1},
		{Sec: 100, Usec: 1, Type: 0x00, Code: 0x00, Value: 0},
	}
	data := Marshal(batch)
	if len(data) != 3*RecordSize {
		t.Fatalf("Expected %d bytes, got %d", 3*RecordSize, len(data))
	}
	out, err := Records(data)
	if err != nil {
		t.Fatalf("Records returned error: %v", err)
	}
	if len(out) != len(batch) {
		t.Fatalf("Expected %d records, got %d", len(batch), len(out))
	}
	for i := range batch {
		if out[i] != batch[i] {
			t.Errorf("Record %d: expected %+v, got %+v", i, batch[i], out[i])
		}
	}
}

// TestTruncated tests that partial records are rejected.
func TestTruncated(t *testing.T) {
	if _, err := Decode(make([]byte, 10)); !errors.Is(err, ErrTruncated) {
		t.Errorf("Expected ErrTruncated from short Decode, got %v", err)
	}
	if _, err := Records(make([]byte, RecordSize+1)); !errors.Is(err, ErrTruncated) {
		t.Errorf("Expected ErrTruncated from ragged Records, got %v", err)
	}
}

// TestRecordsEmpty tests that an empty buffer decodes to no records.
func TestRecordsEmpty(t *testing.T) {
	out, err := Records(nil)
	if err != nil {
		t.Fatalf("Records returned error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("Expected no records, got %d", len(out))
	}
}
