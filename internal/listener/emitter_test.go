package listener

import (
	"testing"

	"inputhub/internal/eventio"
)

// flushRecords flushes the emitter and decodes the batch back into
// records for inspection.
func flushRecords(t *testing.T, e *Emitter) []eventio.Record {
	t.Helper()
	records, err := eventio.Records(e.Flush())
	if err != nil {
		t.Fatalf("Records returned error: %v", err)
	}
	return records
}

// TestEmulatePress tests that a press produces the scan record, then the
// key record, in that order, under one shared timestamp.
func TestEmulatePress(t *testing.T) {
	e := NewEmitter(1)
	e.SetTimeval(100, 1)
	e.EmulatePress(272, 589825, 1)

	records := flushRecords(t, e)
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	want := []eventio.Record{
		{Sec: 100, Usec: 1, Type: eventio.TypeMisc, Code: 0x04, Value: 589825},
		{Sec: 100, Usec: 1, Type: eventio.TypeKey, Code: 272, Value: 1},
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("Record %d: expected %+v, got %+v", i, want[i], records[i])
		}
	}
}

// TestEmulateWheel tests delta scaling on both the 120-per-detent and
// 1-per-detent conventions.
func TestEmulateWheel(t *testing.T) {
	e := NewEmitter(120)
	e.SetTimeval(100, 1)
	e.EmulateWheel(240, WheelX)
	records := flushRecords(t, e)
	want := eventio.Record{Sec: 100, Usec: 1, Type: eventio.TypeRelative, Code: 0x06, Value: 2}
	if len(records) != 1 || records[0] != want {
		t.Errorf("Expected [%+v], got %+v", want, records)
	}

	e = NewEmitter(1)
	e.SetTimeval(100, 1)
	e.EmulateWheel(20, WheelX)
	records = flushRecords(t, e)
	want.Value = 20
	if len(records) != 1 || records[0] != want {
		t.Errorf("Expected [%+v], got %+v", want, records)
	}
}

// TestEmulateWheelNegative tests that scaled scrolls toward the user keep
// their direction instead of rounding toward zero.
func TestEmulateWheelNegative(t *testing.T) {
	e := NewEmitter(120)
	e.SetTimeval(100, 1)
	e.EmulateWheel(-120, WheelY)
	e.EmulateWheel(-130, WheelY)

	records := flushRecords(t, e)
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Value != -1 {
		t.Errorf("Expected value -1 for one notch down, got %d", records[0].Value)
	}
	if records[1].Value != -2 {
		t.Errorf("Expected value -2 for a notch and a bit, got %d", records[1].Value)
	}
	if records[0].Code != 0x08 {
		t.Errorf("Expected vertical wheel code 0x08, got 0x%02x", records[0].Code)
	}
}

// TestEmulateAbs tests that positions emit an x record then a y record.
func TestEmulateAbs(t *testing.T) {
	e := NewEmitter(1)
	e.SetTimeval(100, 1)
	e.EmulateAbs(628, 943)

	records := flushRecords(t, e)
	want := []eventio.Record{
		{Sec: 100, Usec: 1, Type: eventio.TypeAbsolute, Code: 0x00, Value: 628},
		{Sec: 100, Usec: 1, Type: eventio.TypeAbsolute, Code: 0x01, Value: 943},
	}
	if len(records) != 2 || records[0] != want[0] || records[1] != want[1] {
		t.Errorf("Expected %+v, got %+v", want, records)
	}
}

// TestEmulateRepeat tests the key repeat record.
func TestEmulateRepeat(t *testing.T) {
	e := NewEmitter(1)
	e.SetTimeval(100, 1)
	e.EmulateRepeat(2)

	records := flushRecords(t, e)
	want := eventio.Record{Sec: 100, Usec: 1, Type: eventio.TypeRepeat, Code: 0x02, Value: 2}
	if len(records) != 1 || records[0] != want {
		t.Errorf("Expected [%+v], got %+v", want, records)
	}
}

// TestSyncMarker tests that a full button batch ends with exactly one
// sync report.
func TestSyncMarker(t *testing.T) {
	e := NewEmitter(120)
	e.SetTimeval(100, 1)
	e.EmulatePress(0x110, 589825, 1)
	e.EmulateAbs(10, 20)
	e.SyncMarker()

	records := flushRecords(t, e)
	if len(records) != 5 {
		t.Fatalf("Expected 5 records, got %d", len(records))
	}
	last := records[len(records)-1]
	if last.Type != eventio.TypeSync || last.Code != 0 || last.Value != 0 {
		t.Errorf("Expected terminating sync report, got %+v", last)
	}
	for _, r := range records[:len(records)-1] {
		if r.Type == eventio.TypeSync {
			t.Errorf("Unexpected sync record before the terminator: %+v", r)
		}
	}
}

// TestMakeEvent tests category-name record construction and the strict
// category failure mode.
func TestMakeEvent(t *testing.T) {
	e := NewEmitter(1)
	e.SetTimeval(100, 1)

	rec, err := e.MakeEvent("LED", 0x01, 1)
	if err != nil {
		t.Fatalf("MakeEvent returned error: %v", err)
	}
	want := eventio.Record{Sec: 100, Usec: 1, Type: 0x11, Code: 0x01, Value: 1}
	if rec != want {
		t.Errorf("Expected %+v, got %+v", want, rec)
	}

	if _, err := e.MakeEvent("Banana", 0x01, 1); err == nil {
		t.Error("Expected an error for an unknown category name")
	}
}

// TestFlushResets tests that a flush clears the batch and an empty batch
// flushes to nil.
func TestFlushResets(t *testing.T) {
	e := NewEmitter(1)
	e.SetTimeval(100, 1)
	e.SyncMarker()

	if batch := e.Flush(); len(batch) != eventio.RecordSize {
		t.Errorf("Expected one record in the first flush, got %d bytes", len(batch))
	}
	if e.Len() != 0 {
		t.Errorf("Expected an empty emitter after flush, got %d records", e.Len())
	}
	if batch := e.Flush(); batch != nil {
		t.Errorf("Expected nil from an empty flush, got %d bytes", len(batch))
	}
}
