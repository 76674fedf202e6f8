//go:build darwin

package inputhub

// discover synthesizes the three devices the shared event taps can
// observe. The taps see every attached keyboard and pointer at once, so
// one device per class covers the machine. Caller holds m.mu.
func (m *DeviceManager) discover() {
	for _, d := range []struct {
		kind DeviceKind
		path string
		name string
	}{
		{KindKeyboard, "/dev/input/by-id/usb-Apple_Keyboard-event-kbd", "Apple Keyboard"},
		{KindMouse, "/dev/input/by-id/usb-Apple_Mouse-event-mouse", "Apple Mouse"},
		{KindMouse, "/dev/input/by-id/usb-Apple_Trackpad-event-mouse", "Apple Trackpad"},
	} {
		if _, dup := m.seen[d.path]; dup {
			continue
		}
		m.seen[d.path] = struct{}{}
		m.add(newDarwinDevice(d.kind, d.path, d.name, m.logger))
	}
}

func (m *DeviceManager) newDevice(kind DeviceKind, path, _ string) Device {
	return newDarwinDevice(kind, path, nameFromPath(path), m.logger)
}

// watchDirs is empty: taps already see every device, hotplug included.
func (m *DeviceManager) watchDirs() []string { return nil }
