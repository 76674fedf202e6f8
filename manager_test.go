package inputhub

import (
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// TestClassifyPath checks the suffix classification for device links.
func TestClassifyPath(t *testing.T) {
	cases := []struct {
		path string
		kind DeviceKind
		ok   bool
	}{
		{"/dev/input/by-id/usb-My_Lovely_Keyboard-event-kbd", KindKeyboard, true},
		{"/dev/input/by-id/usb-A_Nice_Mouse-event-mouse", KindMouse, true},
		{"/dev/input/by-id/usb-Gamepad_Co_Pad-event-joystick", KindGamepad, true},
		{"/dev/input/by-id/usb-Ping_Thing-event-ping", KindOther, true},
		{"/dev/input/by-id/pingthing", KindOther, false},
	}
	for _, c := range cases {
		kind, ok := classifyPath(c.path)
		if ok != c.ok || kind != c.kind {
			t.Errorf("classifyPath(%q) = (%v, %v), want (%v, %v)",
				c.path, kind, ok, c.kind, c.ok)
		}
	}
}

// TestNameFromPath checks the fallback name derived from a by-id link.
func TestNameFromPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/dev/input/by-id/usb-A_Nice_Keyboard-event-kbd", "A Nice Keyboard"},
		{"/dev/input/by-id/bluetooth-Nintendo_Wii_Remote-event-joystick", "Nintendo Wii Remote"},
	}
	for _, c := range cases {
		if got := nameFromPath(c.path); got != c.want {
			t.Errorf("nameFromPath(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

// TestParsePathDeduplicates checks that two links resolving to the same
// event node register one device.
func TestParsePathDeduplicates(t *testing.T) {
	m := newDeviceManager(nil, clock.NewMock())
	m.parsePath("/dev/input/by-id/usb-My_Lovely_Keyboard-event-kbd", "/dev/input/event3")
	m.parsePath("/dev/input/by-path/pci-0000:00:14.0-usb-0:1:1.0-event-kbd", "/dev/input/event3")

	if got := len(m.Keyboards()); got != 1 {
		t.Errorf("keyboards = %d, want 1", got)
	}
	if got := len(m.AllDevices()); got != 1 {
		t.Errorf("all devices = %d, want 1", got)
	}
	kb := m.Keyboards()[0]
	if kb.Path() != "/dev/input/by-id/usb-My_Lovely_Keyboard-event-kbd" {
		t.Errorf("kept path %q, want the first discovered link", kb.Path())
	}
}

// TestParsePathClassList checks that each suffix lands in its class list
// and in the combined list.
func TestParsePathClassList(t *testing.T) {
	m := newDeviceManager(nil, clock.NewMock())
	m.parsePath("/dev/input/by-id/usb-Kbd-event-kbd", "/dev/input/event0")
	m.parsePath("/dev/input/by-id/usb-Mouse-event-mouse", "/dev/input/event1")
	m.parsePath("/dev/input/by-id/usb-Pad-event-joystick", "/dev/input/event2")
	m.parsePath("/dev/input/by-id/usb-Ping_Thing-event-ping", "/dev/input/event4")

	if got := len(m.Others()); got != 1 {
		t.Errorf("others = %d, want 1", got)
	}
	if got := len(m.AllDevices()); got != 4 {
		t.Errorf("all devices = %d, want 4", got)
	}
	if kind := m.Others()[0].Kind(); kind != KindOther {
		t.Errorf("kind = %v, want %v", kind, KindOther)
	}
}

// TestParsePathSkipsMalformed checks that a link without any dash is
// skipped rather than registered.
func TestParsePathSkipsMalformed(t *testing.T) {
	m := newDeviceManager(nil, clock.NewMock())
	m.parsePath("/dev/input/by-id/pingthing", "/dev/input/event9")

	if got := len(m.AllDevices()); got != 0 {
		t.Errorf("all devices = %d, want 0", got)
	}
}

// TestEventType checks raw category resolution including the unknown
// case.
func TestEventType(t *testing.T) {
	name, err := EventType(0x01)
	if err != nil || name != "Key" {
		t.Errorf("EventType(0x01) = (%q, %v), want (Key, nil)", name, err)
	}
	if _, err := EventType(0x64); !errors.Is(err, ErrUnknownEventType) {
		t.Errorf("EventType(0x64) error = %v, want ErrUnknownEventType", err)
	}
}

// TestEventString checks code resolution for a category that every
// platform resolves the same way.
func TestEventString(t *testing.T) {
	name, err := EventString(0x11, 0x01)
	if err != nil || name != "LED_CAPSL" {
		t.Errorf("EventString(0x11, 0x01) = (%q, %v), want (LED_CAPSL, nil)", name, err)
	}
	if _, err := EventString(0x01, 0x3f0); !errors.Is(err, ErrUnknownEventCode) {
		t.Errorf("EventString(0x01, 0x3f0) error = %v, want ErrUnknownEventCode", err)
	}
	if _, err := EventString(0x64, 0x01); !errors.Is(err, ErrUnknownEventType) {
		t.Errorf("EventString(0x64, 0x01) error = %v, want ErrUnknownEventType", err)
	}
}
