package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inputhub"
	"inputhub/internal/logging"
)

func testServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	logger := logging.NewTestLogger(t)
	srv, err := NewServer(inputhub.NewDeviceManager(logger), cfg, logger)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

// TestHealthEndpoint checks that /health answers without a token even
// when auth is configured.
func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t, Config{AuthToken: "secret"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
	if body["paused"] != false {
		t.Errorf("paused field = %v, want false", body["paused"])
	}
}

// TestDevicesEndpointAuth checks the bearer token gate on /api/devices.
func TestDevicesEndpointAuth(t *testing.T) {
	srv := testServer(t, Config{AuthToken: "secret"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/devices")
	if err != nil {
		t.Fatalf("GET /api/devices: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status without token = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/devices", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/devices with token: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status with token = %d, want 200", resp.StatusCode)
	}

	var payload DevicesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

// TestDevicesEndpointMethod checks the method gate.
func TestDevicesEndpointMethod(t *testing.T) {
	srv := testServer(t, Config{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/devices", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/devices: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

// TestPauseResume checks the publish gate flag.
func TestPauseResume(t *testing.T) {
	srv := testServer(t, Config{})
	if srv.Paused() {
		t.Error("new server starts paused")
	}
	srv.Pause()
	if !srv.Paused() {
		t.Error("Pause did not take effect")
	}
	srv.Resume()
	if srv.Paused() {
		t.Error("Resume did not take effect")
	}
}
