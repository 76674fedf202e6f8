// Package inputhub normalizes native human input sources into one
// canonical event stream. On Linux it reads evdev character devices
// directly; on Windows it bridges low-level keyboard and mouse hooks and
// polls XInput gamepads; on macOS it taps the global Quartz event stream.
// Every source produces the same fixed-width record layout and the same
// category/code numbering, so consumers read one event format everywhere.
package inputhub

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	devicesOnce sync.Once
	devices     *DeviceManager
)

// Devices returns the process-wide device manager, discovering devices
// on the first call.
func Devices() *DeviceManager {
	devicesOnce.Do(func() {
		devices = NewDeviceManager(nil)
	})
	return devices
}

// ReadKey blocks until the first keyboard produces one event.
func ReadKey() (Event, error) {
	keyboards := Devices().Keyboards()
	if len(keyboards) == 0 {
		return Event{}, errors.Wrap(ErrUnplugged, "no keyboard found")
	}
	return keyboards[0].Read()
}

// ReadMouse blocks until the first mouse produces one event.
func ReadMouse() (Event, error) {
	mice := Devices().Mice()
	if len(mice) == 0 {
		return Event{}, errors.Wrap(ErrUnplugged, "no mouse found")
	}
	return mice[0].Read()
}

// ReadGamepad blocks until the first gamepad produces one event.
func ReadGamepad() (Event, error) {
	gamepads := Devices().Gamepads()
	if len(gamepads) == 0 {
		return Event{}, errors.Wrap(ErrUnplugged, "no gamepad found")
	}
	return gamepads[0].Read()
}
