package inputhub

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"inputhub/internal/evcode"
	"inputhub/internal/logging"
)

// DeviceManager owns the set of discovered devices. Discovery runs once
// at construction and again on hotplug when a watch is active; the
// device lists only ever grow, an unplugged device keeps its slot.
type DeviceManager struct {
	logger *zap.SugaredLogger
	clk    clock.Clock

	mu        sync.Mutex
	keyboards []Device
	mice      []Device
	gamepads  []Device
	others    []Device
	all       []Device
	leds      []*LED

	// seen maps a device's real identity to its discovery, so the same
	// hardware reached through several symlinks lands in the list once.
	seen map[string]struct{}
}

// NewDeviceManager discovers the machine's input devices. A nil logger
// gets the package default.
func NewDeviceManager(logger *zap.SugaredLogger) *DeviceManager {
	m := newDeviceManager(logger, clock.New())
	m.mu.Lock()
	m.discover()
	m.mu.Unlock()
	return m
}

// newDeviceManager builds an empty manager without running discovery.
func newDeviceManager(logger *zap.SugaredLogger, clk clock.Clock) *DeviceManager {
	if logger == nil {
		logger = logging.Default()
	}
	return &DeviceManager{
		logger: logger,
		clk:    clk,
		seen:   make(map[string]struct{}),
	}
}

func (m *DeviceManager) Keyboards() []Device  { return m.snapshot(&m.keyboards) }
func (m *DeviceManager) Mice() []Device       { return m.snapshot(&m.mice) }
func (m *DeviceManager) Gamepads() []Device   { return m.snapshot(&m.gamepads) }
func (m *DeviceManager) Others() []Device     { return m.snapshot(&m.others) }
func (m *DeviceManager) AllDevices() []Device { return m.snapshot(&m.all) }

// LEDs lists the system LEDs found during discovery.
func (m *DeviceManager) LEDs() []*LED {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*LED, len(m.leds))
	copy(out, m.leds)
	return out
}

func (m *DeviceManager) snapshot(list *[]Device) []Device {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Device, len(*list))
	copy(out, *list)
	return out
}

// classifyPath maps a device path to a kind from the suffix after the
// last dash. A path without any dash is not a device link at all.
func classifyPath(path string) (DeviceKind, bool) {
	base := filepath.Base(path)
	i := strings.LastIndex(base, "-")
	if i < 0 {
		return KindOther, false
	}
	switch base[i+1:] {
	case "kbd":
		return KindKeyboard, true
	case "mouse":
		return KindMouse, true
	case "joystick":
		return KindGamepad, true
	default:
		return KindOther, true
	}
}

// nameFromPath derives a readable fallback name from the identifier
// segment of a by-id style path: the part between the bus prefix and
// the trailing role suffix, with underscores as spaces.
func nameFromPath(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "-"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "-event-"); i >= 0 {
		base = base[:i]
	} else if i := strings.LastIndex(base, "-"); i >= 0 {
		base = base[:i]
	}
	return strings.ReplaceAll(base, "_", " ")
}

// parsePath classifies one discovered path and registers the device.
// realPath identifies the underlying hardware for deduplication; the
// caller holds m.mu.
func (m *DeviceManager) parsePath(path, realPath string) {
	kind, ok := classifyPath(path)
	if !ok {
		m.logger.Warnw("skipping unrecognized device link", "path", path)
		return
	}
	if _, dup := m.seen[realPath]; dup {
		return
	}
	m.seen[realPath] = struct{}{}

	dev := m.newDevice(kind, path, realPath)
	m.add(dev)
}

// add appends a device to its class list. Caller holds m.mu.
func (m *DeviceManager) add(dev Device) {
	switch dev.Kind() {
	case KindKeyboard:
		m.keyboards = append(m.keyboards, dev)
	case KindMouse:
		m.mice = append(m.mice, dev)
	case KindGamepad:
		m.gamepads = append(m.gamepads, dev)
	default:
		m.others = append(m.others, dev)
	}
	m.all = append(m.all, dev)
	m.logger.Debugw("registered device",
		"path", dev.Path(), "kind", dev.Kind().String())
}

// EventType resolves a raw event type to its symbolic name.
func EventType(raw uint16) (string, error) {
	return evcode.TypeName(raw)
}

// EventString resolves a raw (type, code) pair to the code's symbolic
// name, using the platform's key naming where that differs.
func EventString(rawType, rawCode uint16) (string, error) {
	typeName, err := evcode.TypeName(rawType)
	if err != nil {
		return "", err
	}
	return eventString(typeName, rawCode)
}
