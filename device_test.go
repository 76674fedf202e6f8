package inputhub

import (
	"testing"

	"github.com/pkg/errors"

	"inputhub/internal/eventio"
)

// fakeSource feeds canned record batches and remembers how often it was
// opened.
type fakeSource struct {
	batches [][]eventio.Record
	opens   int
	openErr error
}

func (s *fakeSource) Open() error {
	s.opens++
	return s.openErr
}

func (s *fakeSource) ReadBatch() ([]eventio.Record, error) {
	if len(s.batches) == 0 {
		return nil, errors.New("out of batches")
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

func (s *fakeSource) Close() error { return nil }

func testDevice(kind DeviceKind, src recordSource) Device {
	return wrapDevice(kind, eventDevice{
		path:   "/dev/input/by-id/usb-Test_Device-event-kbd",
		kind:   kind,
		name:   "Test Device",
		logger: nil,
		src:    src,
	})
}

// TestDeviceReadOrder checks that a batch is handed out one event at a
// time, in order, with names resolved.
func TestDeviceReadOrder(t *testing.T) {
	src := &fakeSource{batches: [][]eventio.Record{{
		{Sec: 100, Usec: 200, Type: eventio.TypeMisc, Code: 0x04, Value: 589825},
		{Sec: 100, Usec: 200, Type: eventio.TypeKey, Code: 0x1e, Value: 1},
		{Sec: 100, Usec: 200, Type: eventio.TypeSync, Code: 0x00, Value: 0},
	}}}
	dev := testDevice(KindKeyboard, src)

	wantCodes := []string{"MSC_SCAN", "KEY_A", "SYN_REPORT"}
	wantTypes := []string{"Misc", "Key", "Sync"}
	for i := range wantCodes {
		ev, err := dev.Read()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if ev.Type != wantTypes[i] || ev.Code != wantCodes[i] {
			t.Errorf("event %d = (%s, %s), want (%s, %s)",
				i, ev.Type, ev.Code, wantTypes[i], wantCodes[i])
		}
		if ev.Device != dev {
			t.Errorf("event %d device = %v, want the read device", i, ev.Device)
		}
	}
	if src.opens != 1 {
		t.Errorf("opens = %d, want 1", src.opens)
	}
}

// TestDeviceReadSpansBatches checks that reading continues into the next
// batch once the first is drained.
func TestDeviceReadSpansBatches(t *testing.T) {
	src := &fakeSource{batches: [][]eventio.Record{
		{{Sec: 1, Type: eventio.TypeKey, Code: 0x1e, Value: 1}},
		{{Sec: 2, Type: eventio.TypeKey, Code: 0x1e, Value: 0}},
	}}
	dev := testDevice(KindKeyboard, src)

	for i, want := range []int32{1, 0} {
		ev, err := dev.Read()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if ev.Value != want {
			t.Errorf("read %d value = %d, want %d", i, ev.Value, want)
		}
	}
	if src.opens != 1 {
		t.Errorf("opens = %d, want 1", src.opens)
	}
}

// TestDeviceReadUnknownType checks that an unresolvable category is a
// hard error, not a dropped event.
func TestDeviceReadUnknownType(t *testing.T) {
	src := &fakeSource{batches: [][]eventio.Record{
		{{Sec: 1, Type: 0x64, Code: 0x00, Value: 0}},
	}}
	dev := testDevice(KindKeyboard, src)

	if _, err := dev.Read(); !errors.Is(err, ErrUnknownEventType) {
		t.Errorf("error = %v, want ErrUnknownEventType", err)
	}
}

// TestDeviceReadUnknownCode checks that an unresolvable code inside a
// known category is also a hard error.
func TestDeviceReadUnknownCode(t *testing.T) {
	src := &fakeSource{batches: [][]eventio.Record{
		{{Sec: 1, Type: eventio.TypeKey, Code: 0x3f0, Value: 1}},
	}}
	dev := testDevice(KindKeyboard, src)

	if _, err := dev.Read(); !errors.Is(err, ErrUnknownEventCode) {
		t.Errorf("error = %v, want ErrUnknownEventCode", err)
	}
}

// TestDeviceOpenError checks that a failing open surfaces on the first
// read.
func TestDeviceOpenError(t *testing.T) {
	openErr := errors.Wrap(ErrPermissionDenied, "open /dev/input/event3")
	dev := testDevice(KindKeyboard, &fakeSource{openErr: openErr})

	if _, err := dev.Read(); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("error = %v, want ErrPermissionDenied", err)
	}
}

// TestDeviceName checks the resolver fallback chain.
func TestDeviceName(t *testing.T) {
	dev := wrapDevice(KindMouse, eventDevice{
		path:        "/dev/input/by-id/usb-X-event-mouse",
		kind:        KindMouse,
		resolveName: func() string { return "Resolved Mouse" },
	})
	if got := dev.Name(); got != "Resolved Mouse" {
		t.Errorf("name = %q, want Resolved Mouse", got)
	}

	blank := wrapDevice(KindMouse, eventDevice{
		path: "/dev/input/by-id/usb-X-event-mouse",
		kind: KindMouse,
	})
	if got := blank.Name(); got != "Unknown Device" {
		t.Errorf("name = %q, want Unknown Device", got)
	}
}

// TestMotorSpeed checks the vibration ratio scaling and clamping.
func TestMotorSpeed(t *testing.T) {
	cases := []struct {
		ratio float64
		want  uint16
	}{
		{0, 0},
		{1, 0xffff},
		{0.5, 0x7fff},
		{-2, 0},
		{3, 0xffff},
	}
	for _, c := range cases {
		if got := motorSpeed(c.ratio); got != c.want {
			t.Errorf("motorSpeed(%v) = %#x, want %#x", c.ratio, got, c.want)
		}
	}
}
