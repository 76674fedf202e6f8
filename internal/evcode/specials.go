package evcode

// specialDevices maps sysfs device names to synthesized by-id paths for
// devices that never appear under /dev/input/by-id or by-path, such as
// GPIO and bluetooth devices on single board computers.
var specialDevices = map[string]string{
	"Raspberry Pi Sense HAT Joystick": "/dev/input/by-id/gpio-Raspberry_Pi_Sense_HAT_Joystick-event-kbd",
	"Nintendo Wii Remote":             "/dev/input/by-id/bluetooth-Nintendo_Wii_Remote-event-joystick",
	"FT5406 memory based driver":      "/dev/input/by-id/gpio-Raspberry_Pi_Touchscreen_Display-event-mouse",
}

// SpecialDevicePath resolves a sysfs device name to the synthesized by-id
// path used to classify it. ok is false for names that are not known
// special devices.
func SpecialDevicePath(name string) (string, bool) {
	path, ok := specialDevices[name]
	return path, ok
}
