package inputhub

import (
	"os"
	"path/filepath"
	"testing"
)

// TestParseLEDName checks the sysfs led directory name split.
func TestParseLEDName(t *testing.T) {
	number, name, err := parseLEDName("input3::capslock")
	if err != nil {
		t.Fatalf("parseLEDName: %v", err)
	}
	if number != 3 || name != "capslock" {
		t.Errorf("parsed (%d, %q), want (3, capslock)", number, name)
	}

	for _, bad := range []string{"mmc0::", "capslock", "inputX::numlock", "phy0-led"} {
		if _, _, err := parseLEDName(bad); err == nil {
			t.Errorf("parseLEDName(%q) succeeded, want error", bad)
		}
	}
}

// TestLEDBrightness checks the sysfs brightness reads against a scratch
// led directory.
func TestLEDBrightness(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "input3::capslock")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writeFile("brightness", "1\n")
	writeFile("max_brightness", "255\n")

	led, err := newLED(dir, nil)
	if err != nil {
		t.Fatalf("newLED: %v", err)
	}
	if led.Name() != "capslock" {
		t.Errorf("name = %q, want capslock", led.Name())
	}

	if level, err := led.Brightness(); err != nil || level != 1 {
		t.Errorf("Brightness = (%d, %v), want (1, nil)", level, err)
	}
	if max, err := led.MaxBrightness(); err != nil || max != 255 {
		t.Errorf("MaxBrightness = (%d, %v), want (255, nil)", max, err)
	}
	if on, err := led.Status(); err != nil || !on {
		t.Errorf("Status = (%v, %v), want (true, nil)", on, err)
	}

	writeFile("brightness", "0\n")
	if on, err := led.Status(); err != nil || on {
		t.Errorf("Status after clear = (%v, %v), want (false, nil)", on, err)
	}
}

// TestLEDUnknownCode checks that switching a led with no event code
// fails cleanly.
func TestLEDUnknownCode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "input7::glow")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	led, err := newLED(dir, nil)
	if err != nil {
		t.Fatalf("newLED: %v", err)
	}
	if err := led.On(); err == nil {
		t.Error("On succeeded for a led with no event code")
	}
}
