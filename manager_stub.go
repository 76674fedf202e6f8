//go:build !linux && !windows && !darwin

package inputhub

func (m *DeviceManager) discover() {}

func (m *DeviceManager) newDevice(kind DeviceKind, path, _ string) Device {
	return newStubDevice(kind, path, nameFromPath(path), m.logger)
}

func (m *DeviceManager) watchDirs() []string { return nil }
