//go:build windows

package inputhub

import (
	"fmt"
	"strconv"
	"strings"
	"syscall"
	"unsafe"

	"github.com/pkg/errors"

	"inputhub/internal/xinput"
)

const (
	rimTypeMouse    = 0
	rimTypeKeyboard = 1
)

// rawInputDeviceList mirrors the Win32 RAWINPUTDEVICELIST structure.
type rawInputDeviceList struct {
	Handle uintptr
	Type   uint32
}

var (
	user32                = syscall.NewLazyDLL("user32.dll")
	getRawInputDeviceList = user32.NewProc("GetRawInputDeviceList")
)

// discover counts the raw input keyboards and mice, probes the XInput
// controller slots, and synthesizes stable paths shaped like the Linux
// by-id links so consumers see one path scheme everywhere. Caller holds
// m.mu.
func (m *DeviceManager) discover() {
	keyboards, mice, err := countRawInputDevices()
	if err != nil {
		m.logger.Warnw("raw input device enumeration failed", "error", err)
		keyboards, mice = 1, 1
	}
	for i := 0; i < keyboards; i++ {
		m.parseSynthesized(KindKeyboard,
			fmt.Sprintf("/dev/input/by-id/usb-A_Nice_Keyboard_%d-event-kbd", i),
			"A Nice Keyboard")
	}
	for i := 0; i < mice; i++ {
		m.parseSynthesized(KindMouse,
			fmt.Sprintf("/dev/input/by-id/usb-A_Nice_Mouse_%d-event-mouse", i),
			"A Nice Mouse")
	}

	for slot := 0; slot < xinput.Slots; slot++ {
		if _, err := xinput.GetState(slot); err != nil {
			if errors.Is(err, xinput.ErrNotConnected) {
				continue
			}
			m.logger.Panicw("controller probe failed", "slot", slot, "error", err)
		}
		path := fmt.Sprintf(
			"/dev/input/by-id/usb-Microsoft_Corporation_Controller_%d-event-joystick", slot)
		m.parseSynthesized(KindGamepad, path, "Microsoft Corporation Controller")
	}
}

// parseSynthesized registers a synthesized device path; the path is its
// own identity. Caller holds m.mu.
func (m *DeviceManager) parseSynthesized(kind DeviceKind, path, name string) {
	if _, dup := m.seen[path]; dup {
		return
	}
	m.seen[path] = struct{}{}
	if kind == KindGamepad {
		slot, err := gamepadSlot(path)
		if err != nil {
			m.logger.Warnw("bad controller path", "path", path, "error", err)
			return
		}
		m.add(newWinGamepad(slot, path, name, m.logger, m.clk))
		return
	}
	m.add(newWinDevice(kind, path, name, m.logger))
}

// newDevice exists for the shared parsePath flow; windows discovery
// always knows the kind up front.
func (m *DeviceManager) newDevice(kind DeviceKind, path, _ string) Device {
	return newWinDevice(kind, path, nameFromPath(path), m.logger)
}

// gamepadSlot extracts the controller slot from the trailing digits of
// the path's identifier segment.
func gamepadSlot(path string) (int, error) {
	base := nameFromPath(path)
	i := strings.LastIndex(base, " ")
	if i < 0 {
		return 0, errors.Errorf("no slot in controller path %q", path)
	}
	slot, err := strconv.Atoi(base[i+1:])
	if err != nil {
		return 0, errors.Wrapf(err, "no slot in controller path %q", path)
	}
	return slot, nil
}

// countRawInputDevices returns the number of attached keyboards and mice.
func countRawInputDevices() (keyboards, mice int, err error) {
	var count uint32
	size := uint32(unsafe.Sizeof(rawInputDeviceList{}))
	ret, _, callErr := getRawInputDeviceList.Call(0, uintptr(unsafe.Pointer(&count)), uintptr(size))
	if int32(ret) < 0 {
		return 0, 0, errors.Wrap(callErr, "GetRawInputDeviceList count")
	}
	if count == 0 {
		return 0, 0, nil
	}
	list := make([]rawInputDeviceList, count)
	ret, _, callErr = getRawInputDeviceList.Call(
		uintptr(unsafe.Pointer(&list[0])), uintptr(unsafe.Pointer(&count)), uintptr(size))
	if int32(ret) < 0 {
		return 0, 0, errors.Wrap(callErr, "GetRawInputDeviceList")
	}
	for _, dev := range list[:count] {
		switch dev.Type {
		case rimTypeKeyboard:
			keyboards++
		case rimTypeMouse:
			mice++
		}
	}
	return keyboards, mice, nil
}

// watchDirs is empty: there is no directory to watch for hotplug here.
func (m *DeviceManager) watchDirs() []string { return nil }
