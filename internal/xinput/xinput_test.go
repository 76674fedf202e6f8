package xinput

import (
	"testing"

	"inputhub/internal/eventio"
)

// TestDiffIdentical tests that two identical samples produce no records
// at all, not even a sync marker.
func TestDiffIdentical(t *testing.T) {
	s := Sample{Packet: 7, Buttons: 0x1000, LeftTrigger: 40, ThumbLX: -3000}
	if records := Diff(s, s, 100, 1); records != nil {
		t.Errorf("Expected no records for identical samples, got %+v", records)
	}
}

// TestDiffSingleButton tests that one changed button bit emits exactly
// one key record plus the sync marker.
func TestDiffSingleButton(t *testing.T) {
	prev := Sample{}
	cur := Sample{Buttons: 0x1000} // A button, bit 13

	records := Diff(prev, cur, 100, 1)
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d: %+v", len(records), records)
	}
	want := eventio.Record{Sec: 100, Usec: 1, Type: eventio.TypeKey, Code: 0x130, Value: 1}
	if records[0] != want {
		t.Errorf("Expected %+v, got %+v", want, records[0])
	}
	if records[1].Type != eventio.TypeSync {
		t.Errorf("Expected terminating sync record, got %+v", records[1])
	}

	// Releasing the same button reports value 0.
	records = Diff(cur, prev, 100, 1)
	if len(records) != 2 || records[0].Value != 0 {
		t.Errorf("Expected a release record, got %+v", records)
	}
}

// TestDiffHat tests that direction-pad bits emit signed absolute hat
// records instead of key records.
func TestDiffHat(t *testing.T) {
	cases := []struct {
		buttons uint16
		code    uint16
		value   int32
	}{
		{0x0001, 0x11, -1}, // up
		{0x0002, 0x11, 1},  // down
		{0x0004, 0x10, -1}, // left
		{0x0008, 0x10, 1},  // right
	}
	for _, c := range cases {
		records := Diff(Sample{}, Sample{Buttons: c.buttons}, 100, 1)
		if len(records) != 2 {
			t.Fatalf("Expected 2 records for buttons 0x%04x, got %d", c.buttons, len(records))
		}
		want := eventio.Record{Sec: 100, Usec: 1, Type: eventio.TypeAbsolute, Code: c.code, Value: c.value}
		if records[0] != want {
			t.Errorf("Expected %+v, got %+v", want, records[0])
		}

		// Releasing a hat direction recenters to zero.
		records = Diff(Sample{Buttons: c.buttons}, Sample{}, 100, 1)
		if records[0].Value != 0 {
			t.Errorf("Expected hat release value 0 for buttons 0x%04x, got %d", c.buttons, records[0].Value)
		}
	}
}

// TestDiffUnmappedBit tests that the guide button bit is skipped rather
// than emitted as an unresolvable record.
func TestDiffUnmappedBit(t *testing.T) {
	records := Diff(Sample{}, Sample{Buttons: 0x0400}, 100, 1)
	if records != nil {
		t.Errorf("Expected no records for the guide bit, got %+v", records)
	}
}

// TestDiffAxes tests that only changed analog fields emit records and
// that raw values pass through without deadzone filtering.
func TestDiffAxes(t *testing.T) {
	prev := Sample{LeftTrigger: 10, ThumbLX: 100, ThumbRY: -200}
	cur := Sample{LeftTrigger: 10, ThumbLX: 101, ThumbRY: -200}

	records := Diff(prev, cur, 100, 1)
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d: %+v", len(records), records)
	}
	want := eventio.Record{Sec: 100, Usec: 1, Type: eventio.TypeAbsolute, Code: 0x00, Value: 101}
	if records[0] != want {
		t.Errorf("Expected %+v, got %+v", want, records[0])
	}
}

// TestDiffCombined tests a sample where buttons and axes change together:
// button records come first, then axis records, then one sync marker.
func TestDiffCombined(t *testing.T) {
	prev := Sample{}
	cur := Sample{Buttons: 0x2000, RightTrigger: 255, ThumbLY: 32767}

	records := Diff(prev, cur, 100, 1)
	if len(records) != 4 {
		t.Fatalf("Expected 4 records, got %d: %+v", len(records), records)
	}
	if records[0].Type != eventio.TypeKey || records[0].Code != 0x131 {
		t.Errorf("Expected B button record first, got %+v", records[0])
	}
	if records[1].Code != 0x05 || records[1].Value != 255 {
		t.Errorf("Expected right trigger record, got %+v", records[1])
	}
	if records[2].Code != 0x01 || records[2].Value != 32767 {
		t.Errorf("Expected left thumb y record, got %+v", records[2])
	}
	if records[3].Type != eventio.TypeSync {
		t.Errorf("Expected terminating sync record, got %+v", records[3])
	}
}
