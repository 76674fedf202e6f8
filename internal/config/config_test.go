package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadMissingFile checks that a missing config file keeps defaults.
func TestLoadMissingFile(t *testing.T) {
	m := NewManagerAt(filepath.Join(t.TempDir(), "config.json"))
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := m.Get()
	if cfg.Stream.Enabled {
		t.Error("stream enabled by default")
	}
	if cfg.Stream.ListenAddr != "0.0.0.0:18320" {
		t.Errorf("listen addr = %q, want default", cfg.Stream.ListenAddr)
	}
}

// TestSaveLoadRoundTrip checks that settings survive a save and reload.
func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m := NewManagerAt(path)

	cfg := DefaultConfig()
	cfg.Stream.Enabled = true
	cfg.Stream.AuthToken = "secret"
	cfg.Stream.UDPPeers = []string{"10.0.0.2:18320"}
	cfg.Tray.StartOnLogin = true
	m.Set(cfg)
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	other := NewManagerAt(path)
	if err := other.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := other.Get()
	if !got.Stream.Enabled || got.Stream.AuthToken != "secret" {
		t.Errorf("stream config = %+v, want saved values", got.Stream)
	}
	if len(got.Stream.UDPPeers) != 1 || got.Stream.UDPPeers[0] != "10.0.0.2:18320" {
		t.Errorf("udp peers = %v, want the saved peer", got.Stream.UDPPeers)
	}
	if !got.Tray.StartOnLogin {
		t.Error("tray start on login not saved")
	}
}

// TestLoadRejectsBadJSON checks that a corrupt file is an error rather
// than silently reset.
func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := NewManagerAt(path)
	if err := m.Load(); err == nil {
		t.Error("Load succeeded on corrupt config")
	}
}

// TestGetReturnsCopy checks that mutating a Get result does not leak
// into the manager's state.
func TestGetReturnsCopy(t *testing.T) {
	m := NewManagerAt(filepath.Join(t.TempDir(), "config.json"))

	cfg := DefaultConfig()
	cfg.Stream.AuthToken = "secret"
	cfg.Stream.UDPPeers = []string{"10.0.0.2:18320"}
	m.Set(cfg)

	got := m.Get()
	got.Stream.AuthToken = "changed"
	got.Stream.UDPPeers[0] = "evil:1"
	got.Stream.UDPPeers = append(got.Stream.UDPPeers, "another:2")

	kept := m.Get()
	if kept.Stream.AuthToken != "secret" {
		t.Errorf("auth token = %q, want secret", kept.Stream.AuthToken)
	}
	if len(kept.Stream.UDPPeers) != 1 || kept.Stream.UDPPeers[0] != "10.0.0.2:18320" {
		t.Errorf("udp peers = %v, want the original peer", kept.Stream.UDPPeers)
	}
}

// TestChangeCallback checks the callback fires on Set and Load.
func TestChangeCallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m := NewManagerAt(path)
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	calls := 0
	m.RegisterChangeCallback(func() { calls++ })
	m.Set(DefaultConfig())
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if calls != 2 {
		t.Errorf("callback calls = %d, want 2", calls)
	}
}
