package logging

import "testing"

// TestNewLogger tests that the default config builds a usable logger.
func TestNewLogger(t *testing.T) {
	logger := NewLogger("test")
	if logger == nil {
		t.Fatal("Expected a logger, got nil")
	}
	logger.Infow("logger built", "name", "test")
}

// TestNewDebugLogger tests that the debug config builds and accepts
// debug-level output.
func TestNewDebugLogger(t *testing.T) {
	logger := NewDebugLogger("test")
	if logger == nil {
		t.Fatal("Expected a logger, got nil")
	}
	logger.Debugw("debug enabled")
}

// TestNewTestLogger tests the harness-backed logger.
func TestNewTestLogger(t *testing.T) {
	logger := NewTestLogger(t)
	logger.Info("routed through testing.TB")
}
