//go:build linux

package inputhub

import (
	"os"
	"path/filepath"
	"strings"

	"inputhub/internal/evcode"
)

const (
	byIDDir   = "/dev/input/by-id"
	byPathDir = "/dev/input/by-path"
	sysInput  = "/sys/class/input"
	sysLEDs   = "/sys/class/leds"
)

// discover walks the stable symlink directories, then picks up devices
// that only exist as raw event nodes. Caller holds m.mu.
func (m *DeviceManager) discover() {
	for _, dir := range []string{byIDDir, byPathDir} {
		m.scanLinkDir(dir)
	}
	m.findSpecialDevices()
	m.findLEDs()
}

func (m *DeviceManager) scanLinkDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Warnw("cannot read device directory", "dir", dir, "error", err)
		}
		return
	}
	for _, entry := range entries {
		link := filepath.Join(dir, entry.Name())
		real, err := filepath.EvalSymlinks(link)
		if err != nil {
			m.logger.Warnw("cannot resolve device link", "path", link, "error", err)
			continue
		}
		m.parsePath(link, real)
	}
}

// findSpecialDevices scans sysfs for devices that never get a by-id or
// by-path link, like GPIO joysticks and bluetooth remotes, and registers
// them under a synthesized path of the usual shape.
func (m *DeviceManager) findSpecialDevices() {
	entries, err := os.ReadDir(sysInput)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "event") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(sysInput, entry.Name(), "device", "name"))
		if err != nil {
			continue
		}
		name := strings.TrimSpace(string(raw))
		path, ok := evcode.SpecialDevicePath(name)
		if !ok {
			continue
		}
		m.parsePath(path, filepath.Join("/dev/input", entry.Name()))
	}
}

func (m *DeviceManager) findLEDs() {
	m.scanLEDDir(sysLEDs)
}

// scanLEDDir registers the LEDs under one sysfs directory. Rescans on
// hotplug hit the same entries again, so each directory goes through
// the seen-set like a device link does.
func (m *DeviceManager) scanLEDDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if _, dup := m.seen[path]; dup {
			continue
		}
		m.seen[path] = struct{}{}

		led, err := newLED(path, m.logger)
		if err != nil {
			m.logger.Debugw("skipping led", "name", entry.Name(), "error", err)
			continue
		}
		m.leds = append(m.leds, led)
	}
}

// newDevice builds the platform device. realPath is the event node the
// discovery link resolved to.
func (m *DeviceManager) newDevice(kind DeviceKind, path, realPath string) Device {
	return newLinuxDevice(kind, path, realPath, m.logger)
}

// watchDirs lists the directories a hotplug watch observes.
func (m *DeviceManager) watchDirs() []string {
	dirs := make([]string, 0, 2)
	for _, dir := range []string{byIDDir, byPathDir} {
		if _, err := os.Stat(dir); err == nil {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
