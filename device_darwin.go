//go:build darwin

package inputhub

import (
	"go.uber.org/zap"

	"inputhub/internal/listener"
)

// gamepadState is empty on macOS.
type gamepadState struct{}

// newDarwinDevice builds a device over a Quartz event tap listener.
func newDarwinDevice(kind DeviceKind, path, name string, logger *zap.SugaredLogger) Device {
	lk := listener.Keyboard
	if kind == KindMouse {
		lk = listener.Mouse
	}
	return wrapDevice(kind, eventDevice{
		path:   path,
		kind:   kind,
		name:   name,
		logger: logger,
		src:    &listenerSource{kind: lk, logger: logger},
	})
}

// SetVibration is a no-op on macOS, which has no native rumble API for
// generic controllers. The call is reported, not silently dropped.
func (g *GamePad) SetVibration(left, right float64) error {
	g.logger.Infow("vibration not supported on this platform",
		"device", g.path, "left", left, "right", right)
	return nil
}
