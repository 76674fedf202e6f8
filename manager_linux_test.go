package inputhub

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/benbjohnson/clock"
)

// TestLEDScanDeduplicates checks that rescanning the led directory, as
// a hotplug rescan does, registers each led once.
func TestLEDScanDeduplicates(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"input3::capslock", "input3::numlock"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	m := newDeviceManager(nil, clock.NewMock())
	m.scanLEDDir(dir)
	if got := len(m.LEDs()); got != 2 {
		t.Fatalf("leds after first scan = %d, want 2", got)
	}

	m.scanLEDDir(dir)
	if got := len(m.LEDs()); got != 2 {
		t.Errorf("leds after second scan = %d, want 2", got)
	}
}

// TestLEDScanSkipsNonInputLEDs checks that non input-device leds are
// not registered.
func TestLEDScanSkipsNonInputLEDs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"input3::capslock", "mmc0::", "phy0-led"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	m := newDeviceManager(nil, clock.NewMock())
	m.scanLEDDir(dir)
	if got := len(m.LEDs()); got != 1 {
		t.Errorf("leds = %d, want 1", got)
	}
}
