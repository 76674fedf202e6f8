// Package config loads and persists the application settings.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	// Stream holds the event publishing settings.
	Stream StreamConfig `json:"stream"`

	// Tray holds the desktop integration settings.
	Tray TrayConfig `json:"tray"`

	// Debug enables debug-level logging.
	Debug bool `json:"debug"`
}

// StreamConfig controls the network event stream.
type StreamConfig struct {
	// Enabled turns the stream server on.
	Enabled bool `json:"enabled"`

	// ListenAddr is the "host:port" the server binds to.
	ListenAddr string `json:"listen_addr"`

	// AuthToken is an optional bearer token for stream endpoints.
	AuthToken string `json:"auth_token,omitempty"`

	// UDPEnabled turns on the binary UDP relay next to the WebSocket
	// stream.
	UDPEnabled bool `json:"udp_enabled"`

	// UDPPeers are "host:port" targets that receive UDP events without
	// registering first.
	UDPPeers []string `json:"udp_peers,omitempty"`

	// FollowAddr, when set, makes this machine subscribe to another
	// publisher instead of serving its own stream.
	FollowAddr string `json:"follow_addr,omitempty"`
}

// TrayConfig controls the system tray integration.
type TrayConfig struct {
	// StartOnLogin registers the application to launch at login.
	StartOnLogin bool `json:"start_on_login"`
}

// DefaultConfig returns a new Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Stream: StreamConfig{
			Enabled:    false,
			ListenAddr: "0.0.0.0:18320",
		},
	}
}

// Manager handles loading and saving the configuration.
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
	onChanged  func()
}

// NewManager creates a manager over the platform's config location.
func NewManager() (*Manager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return NewManagerAt(configPath), nil
}

// NewManagerAt creates a manager over an explicit config file path.
func NewManagerAt(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		config:     DefaultConfig(),
	}
}

// getConfigPath returns the path to the configuration file, creating
// its directory.
func getConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "config path")
		}
		configDir = filepath.Join(home, "Library", "Application Support", "inputhub")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", errors.Wrap(err, "config path")
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "inputhub")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "config path")
		}
		configDir = filepath.Join(home, ".config", "inputhub")
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", errors.Wrap(err, "config path")
	}
	return filepath.Join(configDir, "config.json"), nil
}

// Load reads the configuration from disk. A missing file keeps the
// defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "loading config")
	}
	if err := json.Unmarshal(data, m.config); err != nil {
		return errors.Wrapf(err, "parsing %s", m.configPath)
	}
	if m.onChanged != nil {
		m.onChanged()
	}
	return nil
}

// Save writes the configuration to disk.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	if err := os.WriteFile(m.configPath, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", m.configPath)
	}
	return nil
}

// Get returns a copy of the current configuration. Mutating the result
// has no effect until it is passed back through Set.
func (m *Manager) Get() *Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := *m.config
	out.Stream.UDPPeers = append([]string(nil), m.config.Stream.UDPPeers...)
	return &out
}

// Set replaces the configuration.
func (m *Manager) Set(config *Config) {
	m.mu.Lock()
	m.config = config
	m.mu.Unlock()
	if m.onChanged != nil {
		m.onChanged()
	}
}

// RegisterChangeCallback registers a function called after the
// configuration changes.
func (m *Manager) RegisterChangeCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = fn
}
